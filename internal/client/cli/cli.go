// Package cli implements the scratchpad command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/euforicio/scratchpad/internal/client/api"
	"github.com/euforicio/scratchpad/internal/client/config"
	"github.com/euforicio/scratchpad/internal/client/iocli"
	"github.com/euforicio/scratchpad/internal/client/storage/boltdb"
	"github.com/euforicio/scratchpad/internal/client/storage/filestore"
	"github.com/euforicio/scratchpad/internal/client/sync"
	"github.com/euforicio/scratchpad/internal/logging"
)

// ErrSyncDisabled is returned by commands that need sync while it is turned off.
var ErrSyncDisabled = errors.New("sync is disabled (set sync.enabled or SCRATCHPAD_SYNC_ENABLED)")

// Cli holds what one command invocation works with.
type Cli struct {
	io        iocli.IO
	v         *viper.Viper
	cfg       *config.Config
	logger    *slog.Logger
	store     *boltdb.Storage
	coord     *sync.Coordinator
	remote    *api.Client
	fs        afero.Fs
	logCloser io.Closer
	cfgFile   string
}

// New creates a CLI. Resources are opened when a command runs.
func New() *Cli {
	return &Cli{
		v:  viper.New(),
		fs: afero.NewOsFs(),
	}
}

// Execute runs the command line and releases everything it opened.
func Execute(ctx context.Context, version string, args []string) error {
	c := New()
	defer func() {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	root := c.Command(version)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Command builds the root command.
func (c *Cli) Command(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "scratchpad",
		Short:         "Scratch tabs and clipboard history synced across devices",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default <data-dir>/config.yaml)")
	flags.String("data-dir", "", "directory for local data")
	flags.String("server", "", "record service URL")
	flags.String("token", "", "bearer token for the record service")
	flags.String("zone", "", "remote zone holding the records")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	for key, flag := range map[string]string{
		"data_dir":   "data-dir",
		"server_url": "server",
		"token":      "token",
		"zone":       "zone",
		"log.level":  "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		c.tabCommand(),
		c.clipCommand(),
		c.syncCommand(),
		c.daemonCommand(),
		c.statusCommand(),
		c.disableCommand(),
	)

	return root
}

// open loads configuration and opens local storage
func (c *Cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.io == nil {
		c.io = iocli.New(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	logOpts := cfg.LogOptions()
	logOpts.Output = cmd.ErrOrStderr()
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	c.logger, c.logCloser = logger, closer

	if err := c.fs.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	c.store, err = boltdb.New(cmd.Context(), cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	c.remote = api.NewClient(cfg.ServerURL, cfg.Token)

	c.coord, err = sync.NewCoordinator(sync.Config{Zone: cfg.Zone, Interval: cfg.Sync.Interval}, sync.Deps{
		Remote:    c.remote,
		Metadata:  filestore.NewMetadataCache(c.fs, cfg.MetadataPath(), logger),
		Cursor:    filestore.NewCursorStore(c.fs, cfg.StatePath()),
		Pending:   c.store,
		Settings:  c.store,
		Documents: c.store,
		Clipboard: c.store,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create sync coordinator: %w", err)
	}

	return nil
}

// Close stops sync and closes storage.
func (c *Cli) Close() error {
	if c.coord != nil {
		c.coord.Stop()
	}

	var errs []error
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if c.logCloser != nil {
		if err := c.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// changed queues an upload of a locally modified record
func (c *Cli) changed(ctx context.Context, id uuid.UUID) error {
	if !c.cfg.Sync.Enabled {
		return nil
	}
	return c.coord.RecordChanged(ctx, id)
}

// deleted queues a remote deletion of a locally removed record
func (c *Cli) deleted(ctx context.Context, id uuid.UUID) error {
	if !c.cfg.Sync.Enabled {
		return nil
	}
	return c.coord.RecordDeleted(ctx, id)
}

// checkAccount clears sync state when the token belongs to another account
// than the one the local state was synced with.
func (c *Cli) checkAccount(ctx context.Context) error {
	if c.cfg.Token == "" {
		return nil
	}

	account, err := api.AccountFromToken(c.cfg.Token)
	if err != nil {
		return err
	}

	previous, err := c.store.Account(ctx)
	if err != nil {
		return err
	}

	if previous != "" && previous != account {
		c.logger.Info("Account switched, clearing sync state", "previous", previous, "account", account)
		c.coord.Disable()
	}

	if previous != account {
		return c.store.SetAccount(ctx, account)
	}
	return nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
