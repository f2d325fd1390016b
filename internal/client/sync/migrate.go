package sync

import (
	"context"
	"fmt"

	"github.com/euforicio/scratchpad/internal/models"
)

// prepare runs before the loop starts. A protocol version change or an empty
// metadata cache makes this a first sync: local records are authoritative
// and everything eligible is queued for upload.
func (c *Coordinator) prepare(ctx context.Context) error {
	stored, err := c.settings.ProtocolVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read protocol version: %w", err)
	}

	mismatch := stored != ProtocolVersion
	if mismatch {
		c.logger.Info("Sync protocol changed, starting over", "stored", stored, "current", ProtocolVersion)
		if err := c.metadata.Clear(); err != nil {
			c.logger.Warn("Failed to clear record metadata", "error", err)
		}
		if err := c.settings.SetProtocolVersion(ctx, ProtocolVersion); err != nil {
			return fmt.Errorf("failed to store protocol version: %w", err)
		}
	}

	if !mismatch && c.metadata.Len() > 0 {
		c.firstSync.Store(false)
		return nil
	}

	c.firstSync.Store(true)
	if err := c.cursor.Reset(); err != nil {
		c.logger.Warn("Failed to reset sync state", "error", err)
	}
	if err := c.pending.MarkZoneSave(ctx); err != nil {
		return fmt.Errorf("failed to queue zone save: %w", err)
	}

	return c.enqueueAll(ctx)
}

// enqueueAll queues a save for every sync-eligible local record.
func (c *Coordinator) enqueueAll(ctx context.Context) error {
	docs, err := c.documents.SyncEligibleDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	entries, err := c.clipboard.SyncEligibleClipboardEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clipboard entries: %w", err)
	}

	for _, doc := range docs {
		if _, err := c.pending.AddPending(ctx, models.OpSave, doc.ID); err != nil {
			return fmt.Errorf("failed to queue document %s: %w", doc.ID, err)
		}
	}
	for _, entry := range entries {
		if _, err := c.pending.AddPending(ctx, models.OpSave, entry.ID); err != nil {
			return fmt.Errorf("failed to queue clipboard entry %s: %w", entry.ID, err)
		}
	}

	c.logger.Info("Queued full upload", "documents", len(docs), "clipboard_entries", len(entries))

	return nil
}
