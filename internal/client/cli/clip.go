package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/euforicio/scratchpad/internal/models"
)

// clipPreviewLen is how much of an entry clip ls shows
const clipPreviewLen = 60

func (c *Cli) clipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Manage clipboard history",
	}
	cmd.AddCommand(c.clipAddCommand(), c.clipLsCommand(), c.clipRmCommand())
	return cmd
}

func (c *Cli) clipAddCommand() *cobra.Command {
	var image bool

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a clipboard entry; text comes from the argument or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, text := models.ClipboardText, ""
			switch {
			case image:
				// Картинки хранятся только локально
				kind = models.ClipboardImage
			case len(args) == 1:
				text = args[0]
			default:
				input, err := c.io.ReadText("Text")
				if err != nil {
					return fmt.Errorf("failed to read text: %w", err)
				}
				text = input
			}

			entry, err := c.store.AddClipboardEntry(ctx, kind, text)
			if err != nil {
				return err
			}
			if entry.SyncEligible() {
				if err := c.changed(ctx, entry.ID); err != nil {
					return err
				}
			}

			c.io.Printf("✓ Clipboard entry added: %s\n", entry.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&image, "image", false, "record an image entry (kept on this device)")
	return cmd
}

func (c *Cli) clipLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List clipboard history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.store.ListClipboardEntries(cmd.Context())
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				c.io.Println("Clipboard history is empty.")
				return nil
			}

			for _, entry := range entries {
				preview := "[image]"
				if entry.Kind == models.ClipboardText {
					preview = strings.ReplaceAll(entry.Text, "\n", " ")
					if r := []rune(preview); len(r) > clipPreviewLen {
						preview = string(r[:clipPreviewLen]) + "..."
					}
				}
				c.io.Printf("%s  %s  %s\n", entry.ID, entry.Timestamp.Local().Format(time.DateTime), preview)
			}
			return nil
		},
	}
}

func (c *Cli) clipRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a clipboard entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := c.store.RemoveClipboardEntry(ctx, id); err != nil {
				return err
			}
			if err := c.deleted(ctx, id); err != nil {
				return err
			}

			c.io.Printf("✓ Clipboard entry deleted: %s\n", id)
			return nil
		},
	}
}
