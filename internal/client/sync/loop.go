package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/models"
)

// loopState is owned by the run-loop goroutine.
type loopState struct {
	applier *applier
	waiters []chan struct{}
	sched   scheduler
	gen     uint64
}

func (c *Coordinator) run(ctx context.Context, gen uint64, a *applier) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	st := &loopState{gen: gen, applier: a}
	c.trigger(ctx, st, "startup")

	for {
		select {
		case <-ctx.Done():
			st.sched.Reset()
			st.releaseWaiters()
			return

		case reason := <-c.triggers:
			c.trigger(ctx, st, reason)

		case <-ticker.C:
			c.trigger(ctx, st, "periodic")

		case env := <-c.events:
			if env.gen != st.gen {
				// Результат попытки из предыдущего запуска
				continue
			}
			if env.done {
				c.complete(ctx, st)
				continue
			}
			c.handle(ctx, st, env.ev)

		case ev := <-c.external:
			c.handle(ctx, st, ev)

		case w := <-c.idle:
			c.drainPending(ctx, st)
			if st.sched.state == stateIdle {
				close(w)
			} else {
				st.waiters = append(st.waiters, w)
			}
		}
	}
}

func (st *loopState) releaseWaiters() {
	for _, w := range st.waiters {
		close(w)
	}
	st.waiters = nil
}

// drainPending handles notifications and triggers that were already
// delivered so an idle check observes them.
func (c *Coordinator) drainPending(ctx context.Context, st *loopState) {
	for {
		select {
		case ev := <-c.external:
			c.handle(ctx, st, ev)
		case reason := <-c.triggers:
			c.trigger(ctx, st, reason)
		default:
			return
		}
	}
}

func (c *Coordinator) trigger(ctx context.Context, st *loopState, reason string) {
	if !st.sched.Trigger() {
		c.logger.Debug("Sync attempt already running, queued", "reason", reason, "state", st.sched.state)
		return
	}
	c.startAttempt(ctx, st, reason)
}

func (c *Coordinator) complete(ctx context.Context, st *loopState) {
	if st.sched.Complete() {
		c.startAttempt(ctx, st, "queued")
		return
	}
	st.releaseWaiters()
}

func (c *Coordinator) startAttempt(ctx context.Context, st *loopState, reason string) {
	plan := c.plan(ctx, st)

	c.logger.Info("Sync attempt started",
		"reason", reason,
		"outgoing", len(plan.outgoing),
		"save_zone", plan.saveZone,
		"has_cursor", plan.cursor != nil)
	c.metrics.attemptStarted(ctx, reason)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runAttempt(ctx, st.gen, plan)
	}()
}

func (c *Coordinator) handle(ctx context.Context, st *loopState, ev Event) {
	acts := dispatch(&loopView{ctx: ctx, c: c}, ev)
	c.execute(ctx, st, acts)
}

// plan snapshots everything an attempt needs so the attempt goroutine
// only performs remote I/O. Queued local writes are flushed first so the
// cursor read is the one the previous attempt committed.
func (c *Coordinator) plan(ctx context.Context, st *loopState) attemptPlan {
	p := attemptPlan{zone: c.cfg.Zone}

	// Курсор пишется через очередь применения, дожидаемся предыдущей попытки
	if err := st.applier.flush(ctx); err != nil {
		c.logger.Debug("Apply queue not flushed before planning", "error", err)
	}

	saveZone, err := c.pending.ZoneSavePending(ctx)
	if err != nil {
		c.logger.Warn("Failed to read pending zone save", "error", err)
	}
	p.saveZone = saveZone

	cursor, err := c.cursor.Load()
	if err != nil {
		c.logger.Warn("Failed to load sync state, fetching from scratch", "error", err)
		cursor = nil
	}
	p.cursor = cursor

	p.outgoing = c.buildBatch(ctx)

	return p
}

// buildBatch turns pending changes into outgoing records. Saves whose local
// record is gone or no longer eligible are dropped from the pending set.
func (c *Coordinator) buildBatch(ctx context.Context) []outgoing {
	changes, err := c.pending.ListPending(ctx)
	if err != nil {
		c.logger.Warn("Failed to list pending changes", "error", err)
		return nil
	}

	batch := make([]outgoing, 0, len(changes))
	for _, change := range changes {
		if change.Op == models.OpDelete {
			batch = append(batch, outgoing{change: change})
			continue
		}

		rec, err := c.localRecord(ctx, change.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrNotSyncEligible) {
				c.logger.Debug("Dropping pending save", "record_id", change.ID, "reason", err)
				if err := c.pending.RemovePending(ctx, change); err != nil {
					c.logger.Warn("Failed to drop pending save", "record_id", change.ID, "error", err)
				}
				continue
			}
			c.logger.Warn("Failed to read local record", "record_id", change.ID, "error", err)
			continue
		}

		if meta, ok := c.metadata.Get(change.ID.String()); ok {
			rec.Metadata = meta
		}
		batch = append(batch, outgoing{change: change, record: rec})
	}

	return batch
}

// localRecord looks the id up as a document, then as a clipboard entry.
func (c *Coordinator) localRecord(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	doc, err := c.documents.GetDocument(ctx, id)
	if err == nil {
		return doc.ToRecord(nil), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	entry, err := c.clipboard.GetClipboardEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry.ToRecord(nil), nil
}

// loopView reads current state for dispatch.
type loopView struct {
	ctx context.Context
	c   *Coordinator
}

func (v *loopView) FirstSync() bool {
	return v.c.firstSync.Load()
}

func (v *loopView) HasMetadata(id string) bool {
	_, ok := v.c.metadata.Get(id)
	return ok
}

func (v *loopView) HasLocal(kind models.RecordKind, id uuid.UUID) bool {
	var err error
	switch kind {
	case models.KindDocument:
		_, err = v.c.documents.GetDocument(v.ctx, id)
	case models.KindClipboardEntry:
		_, err = v.c.clipboard.GetClipboardEntry(v.ctx, id)
	default:
		return false
	}
	return err == nil || errors.Is(err, storage.ErrNotSyncEligible)
}

func (v *loopView) LocalDocument(id uuid.UUID) (*models.Document, bool) {
	doc, err := v.c.documents.GetDocument(v.ctx, id)
	if err != nil {
		return nil, false
	}
	return doc, true
}
