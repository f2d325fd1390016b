package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/models"
)

// execute performs the actions decided by dispatch on the run loop.
// Local store mutations and cursor writes go through the apply queue so the
// cursor never advances past records that were not applied yet.
func (c *Coordinator) execute(ctx context.Context, st *loopState, acts []action) {
	for _, act := range acts {
		switch a := act.(type) {
		case putMetadata:
			if err := c.metadata.Put(a.id, a.meta); err != nil {
				c.logger.Warn("Failed to persist record metadata", "record_id", a.id, "error", err)
			}

		case removeMetadata:
			if err := c.metadata.Remove(a.id); err != nil {
				c.logger.Warn("Failed to persist record metadata", "record_id", a.id, "error", err)
			}

		case clearMetadata:
			if err := c.metadata.Clear(); err != nil {
				c.logger.Warn("Failed to clear record metadata", "error", err)
			}

		case saveCursor:
			cursor := a.cursor
			st.applier.enqueue("save cursor", func(context.Context) error {
				return c.cursor.Save(cursor)
			})

		case resetCursor:
			st.applier.enqueue("reset cursor", func(context.Context) error {
				return c.cursor.Reset()
			})

		case dequeue:
			if err := c.pending.RemovePending(ctx, a.change); err != nil {
				c.logger.Warn("Failed to remove pending change", "record_id", a.change.ID, "error", err)
			}

		case enqueueSave:
			if _, err := c.pending.AddPending(ctx, models.OpSave, a.id); err != nil {
				c.logger.Warn("Failed to queue save", "record_id", a.id, "error", err)
			}

		case enqueueZoneSave:
			if err := c.pending.MarkZoneSave(ctx); err != nil {
				c.logger.Warn("Failed to queue zone save", "error", err)
			}

		case clearZoneSave:
			if err := c.pending.ClearZoneSave(ctx); err != nil {
				c.logger.Warn("Failed to clear zone save", "error", err)
			}

		case reuploadAll:
			if err := c.enqueueAll(ctx); err != nil {
				c.logger.Warn("Failed to queue full upload", "error", err)
			}

		case applyDocument:
			doc := a.doc
			st.applier.enqueue("apply document "+doc.ID.String(), func(ctx context.Context) error {
				if err := c.documents.ApplyRemoteDocument(ctx, doc); err != nil {
					if errors.Is(err, storage.ErrNotSyncEligible) {
						c.logger.Debug("Local document became file-backed, keeping it", "record_id", doc.ID)
						return nil
					}
					return fmt.Errorf("failed to apply document: %w", err)
				}
				c.metrics.recordApplied(ctx, models.KindDocument, "upsert")
				return nil
			})

		case applyClipboard:
			entry := a.entry
			st.applier.enqueue("apply clipboard entry "+entry.ID.String(), func(ctx context.Context) error {
				if err := c.clipboard.ApplyRemoteClipboardEntry(ctx, entry); err != nil {
					return fmt.Errorf("failed to apply clipboard entry: %w", err)
				}
				c.metrics.recordApplied(ctx, models.KindClipboardEntry, "upsert")
				return nil
			})

		case removeLocal:
			kind, id := a.kind, a.id
			st.applier.enqueue("remove "+id.String(), func(ctx context.Context) error {
				var err error
				switch kind {
				case models.KindDocument:
					err = c.documents.RemoveDocument(ctx, id)
				case models.KindClipboardEntry:
					err = c.clipboard.RemoveClipboardEntry(ctx, id)
				}
				if err != nil {
					return fmt.Errorf("failed to remove %s: %w", kind, err)
				}
				c.metrics.recordApplied(ctx, kind, "delete")
				return nil
			})

		case finishFirstSync:
			if c.firstSync.CompareAndSwap(true, false) {
				c.logger.Info("First sync completed")
			}

		case markSynced:
			now := time.Now().UTC()
			c.lastSynced.Store(now.UnixNano())
			if err := c.settings.SetLastSynced(ctx, now); err != nil {
				c.logger.Warn("Failed to store last sync time", "error", err)
			}

		case countConflict:
			c.metrics.conflict(ctx, a.kind, a.resolution)
			c.logger.Info("Resolved write conflict", "kind", a.kind, "winner", a.resolution)

		case logEntry:
			c.logger.Log(ctx, a.level, a.msg, a.args...)
		}
	}
}
