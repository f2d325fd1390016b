package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// syncTimeout bounds a one-shot sync
const syncTimeout = 5 * time.Minute

func (c *Cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync attempt and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.startSync(ctx); err != nil {
				return err
			}

			waitCtx, cancel := context.WithTimeout(ctx, syncTimeout)
			defer cancel()
			if err := c.coord.WaitIdle(waitCtx); err != nil {
				return fmt.Errorf("sync did not finish: %w", err)
			}
			c.coord.Stop()

			status, err := c.coord.Status(ctx)
			if err != nil {
				return err
			}

			if status.Pending > 0 || status.ZoneSavePending {
				c.io.Printf("⚠️  Sync incomplete: %d change(s) still pending\n", status.Pending)
				c.io.Println("Run 'scratchpad status' for details or retry later.")
				return nil
			}

			c.io.Println("✓ Synchronization completed successfully!")
			return nil
		},
	}
}

func (c *Cli) daemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Keep syncing until interrupted",
		Long: `Run the sync coordinator in the foreground until SIGINT or SIGTERM.
On Unix, SIGUSR1 requests an immediate sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.startSync(ctx); err != nil {
				return err
			}

			wake := make(chan os.Signal, 1)
			if len(foregroundSignals) > 0 {
				signal.Notify(wake, foregroundSignals...)
				defer signal.Stop(wake)
			}

			c.logger.Info("Daemon running", "interval", c.cfg.Sync.Interval)
			for {
				select {
				case <-ctx.Done():
					c.coord.Stop()
					return nil
				case <-wake:
					c.coord.Foreground()
				}
			}
		},
	}
}

// startSync checks the account and starts the coordinator
func (c *Cli) startSync(ctx context.Context) error {
	if !c.cfg.Sync.Enabled {
		return ErrSyncDisabled
	}
	if err := c.checkAccount(ctx); err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	return c.coord.Start(ctx)
}
