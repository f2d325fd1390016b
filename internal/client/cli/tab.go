package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/euforicio/scratchpad/internal/models"
)

func (c *Cli) tabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: "Manage scratch tabs",
	}
	cmd.AddCommand(c.tabNewCommand(), c.tabEditCommand(), c.tabCatCommand(), c.tabRmCommand(), c.tabLsCommand())
	return cmd
}

func (c *Cli) tabNewCommand() *cobra.Command {
	var content, language, filePath string
	var lockLanguage bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a tab; content comes from --content or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("content") {
				text, err := c.io.ReadText("Content")
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				content = text
			}

			doc, err := c.store.SaveDocument(ctx, &models.Document{
				Name:           args[0],
				Content:        content,
				Language:       language,
				LanguageLocked: lockLanguage,
				FilePath:       filePath,
			})
			if err != nil {
				return err
			}

			if err := c.changed(ctx, doc.ID); err != nil {
				return err
			}

			c.io.Printf("✓ Tab created: %s\n", doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "tab content")
	cmd.Flags().StringVar(&language, "language", "plain", "syntax language")
	cmd.Flags().BoolVar(&lockLanguage, "lock-language", false, "keep the language from being auto-detected")
	cmd.Flags().StringVar(&filePath, "file", "", "backing file on disk; file-backed tabs stay on this device")
	return cmd
}

func (c *Cli) tabEditCommand() *cobra.Command {
	var name, content, language string
	var lockLanguage bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a tab; without flags new content is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := c.store.FindDocument(ctx, id)
			if err != nil {
				return fmt.Errorf("tab %s: %w", id, err)
			}

			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("content") &&
				!flags.Changed("language") && !flags.Changed("lock-language") {
				text, err := c.io.ReadText("Content")
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				doc.Content = text
			}
			if flags.Changed("name") {
				doc.Name = name
			}
			if flags.Changed("content") {
				doc.Content = content
			}
			if flags.Changed("language") {
				doc.Language = language
			}
			if flags.Changed("lock-language") {
				doc.LanguageLocked = lockLanguage
			}

			if _, err := c.store.SaveDocument(ctx, doc); err != nil {
				return err
			}
			if err := c.changed(ctx, doc.ID); err != nil {
				return err
			}

			c.io.Printf("✓ Tab updated: %s\n", doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&language, "language", "", "new syntax language")
	cmd.Flags().BoolVar(&lockLanguage, "lock-language", false, "lock or unlock the language")
	return cmd
}

func (c *Cli) tabCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <id>",
		Short: "Print tab content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := c.store.FindDocument(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("tab %s: %w", id, err)
			}

			c.io.Println(doc.Content)
			return nil
		},
	}
}

func (c *Cli) tabRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := c.store.FindDocument(ctx, id)
			if err != nil {
				return fmt.Errorf("tab %s: %w", id, err)
			}

			if err := c.store.RemoveDocument(ctx, id); err != nil {
				return err
			}
			// Файловые вкладки на сервер не попадали
			if doc.SyncEligible() {
				if err := c.deleted(ctx, id); err != nil {
					return err
				}
			}

			c.io.Printf("✓ Tab deleted: %s\n", id)
			return nil
		},
	}
}

func (c *Cli) tabLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := c.store.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}

			if len(docs) == 0 {
				c.io.Println("No tabs found.")
				return nil
			}

			for _, doc := range docs {
				local := ""
				if !doc.SyncEligible() {
					local = "  (local: " + doc.FilePath + ")"
				}
				c.io.Printf("%s  %-24s %-10s %s%s\n",
					doc.ID, doc.Name, doc.Language, doc.LastModified.Local().Format(time.DateTime), local)
			}
			return nil
		},
	}
}
