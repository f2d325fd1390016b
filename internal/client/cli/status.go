package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/euforicio/scratchpad/internal/models"
)

func (c *Cli) statusCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status, err := c.coord.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to read sync status: %w", err)
			}

			c.io.Println("=== Sync Status ===")
			c.io.Println()
			if !c.cfg.Sync.Enabled {
				c.io.Println("Sync: disabled")
			} else {
				c.io.Printf("Sync: enabled (%s, zone %s, every %s)\n", c.cfg.ServerURL, c.cfg.Zone, c.cfg.Sync.Interval)
			}

			account, err := c.store.Account(ctx)
			if err == nil && account != "" {
				c.io.Printf("Account: %s\n", account)
			}

			if status.LastSynced.IsZero() {
				c.io.Println("Last synced: never")
			} else {
				c.io.Printf("Last synced: %s\n", status.LastSynced.Local().Format(time.RFC3339))
			}
			c.io.Printf("First sync pending: %t\n", status.FirstSync || status.CachedRecords == 0)
			c.io.Printf("Records known to server: %d\n", status.CachedRecords)
			c.io.Printf("Cursor saved: %t\n", status.HasCursor)

			c.io.Println()
			if status.Pending > 0 || status.ZoneSavePending {
				c.io.Printf("⚠️  Pending sync: %d change(s) waiting to be sent\n", status.Pending)
			} else {
				c.io.Println("✓ No local changes waiting")
			}

			if check {
				c.io.Println()
				c.checkServer(ctx)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "also check that the server is reachable")
	return cmd
}

func (c *Cli) checkServer(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := c.remote.Health(ctx)
	if err != nil {
		c.io.Printf("Server: unreachable (%s)\n", models.ClassifyError(err))
		c.logger.Debug("Health check failed", "error", err)
		return
	}
	c.io.Printf("Server: %s (version %s)\n", health.Status, health.Version)
}

func (c *Cli) disableCommand() *cobra.Command {
	var deleteRemote bool

	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Stop syncing and forget local sync state",
		Long: `Clear cached record versions and the sync cursor. Local tabs and clipboard
entries are kept; the next sync uploads everything again.
With --delete-remote the remote zone is removed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if deleteRemote {
				err := c.remote.DeleteZone(ctx, c.cfg.Zone)
				if err != nil && models.ClassifyError(err) != models.ErrKindZoneMissing {
					return fmt.Errorf("failed to delete remote zone: %w", err)
				}
				c.io.Printf("✓ Remote zone %s deleted\n", c.cfg.Zone)
			}

			c.coord.Disable()
			if err := c.store.SetAccount(ctx, ""); err != nil {
				return err
			}

			c.io.Println("✓ Sync state cleared. The next sync uploads everything again.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteRemote, "delete-remote", false, "also delete the remote zone")
	return cmd
}
