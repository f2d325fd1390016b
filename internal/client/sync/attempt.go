package sync

import (
	"context"
	"errors"

	"github.com/euforicio/scratchpad/internal/models"
)

var errMissingCursor = errors.New("change feed reported more pages without a cursor")

// outgoing is one pending change ready to send. record is nil for deletions.
type outgoing struct {
	record *models.Record
	change models.PendingChange
}

// attemptPlan is the input of one attempt, captured on the run loop.
type attemptPlan struct {
	zone     string
	cursor   models.SyncCursor
	outgoing []outgoing
	saveZone bool
}

// runAttempt performs the send phase then the fetch phase and reports every
// outcome as an event. The final envelope marks the attempt as done.
func (c *Coordinator) runAttempt(ctx context.Context, gen uint64, plan attemptPlan) {
	emit := func(env envelope) {
		env.gen = gen
		select {
		case c.events <- env:
		case <-ctx.Done():
		}
	}
	defer emit(envelope{done: true})

	failed := c.sendPhase(ctx, plan, func(ev Event) { emit(envelope{ev: ev}) })
	if ctx.Err() != nil {
		return
	}
	emit(envelope{ev: SendCompleted{Failed: failed}})

	// Ошибка отправки не мешает получению изменений
	c.fetchPhase(ctx, plan, func(ev Event) { emit(envelope{ev: ev}) })
}

// sendPhase uploads the zone and the outgoing changes in order and returns the
// number of changes left unconfirmed, a failed zone save included.
// A transient failure stops the phase.
func (c *Coordinator) sendPhase(ctx context.Context, plan attemptPlan, emit func(Event)) int {
	failed := 0
	if plan.saveZone {
		if err := c.remote.SaveZone(ctx, plan.zone); err != nil {
			emit(ZoneSaveFailed{Err: err})
			failed++
			if models.ClassifyError(err) == models.ErrKindTransient {
				return failed + len(plan.outgoing)
			}
		} else {
			emit(ZoneSaved{})
		}
	}

	for i, out := range plan.outgoing {
		if ctx.Err() != nil {
			return failed + len(plan.outgoing) - i
		}

		var err error
		if out.change.Op == models.OpDelete {
			err = c.sendDelete(ctx, plan.zone, out, emit)
		} else {
			err = c.sendSave(ctx, plan.zone, out, emit)
		}
		if err == nil {
			continue
		}

		failed++
		if models.ClassifyError(err) == models.ErrKindTransient {
			c.logger.Warn("Transient failure, postponing remaining changes",
				"remaining", len(plan.outgoing)-i-1, "error", err)
			return failed + len(plan.outgoing) - i - 1
		}
	}

	return failed
}

// sendSave returns the error that leaves the change unconfirmed, nil otherwise.
func (c *Coordinator) sendSave(ctx context.Context, zone string, out outgoing, emit func(Event)) error {
	meta, err := c.remote.SaveRecord(ctx, zone, out.record)
	c.metrics.recordSent(ctx, out.change.Op, err)
	if err != nil {
		emit(RecordSaveFailed{Err: err, Sent: out.record, Change: out.change})
		return err
	}

	emit(RecordSaved{Metadata: meta, Change: out.change})
	return nil
}

func (c *Coordinator) sendDelete(ctx context.Context, zone string, out outgoing, emit func(Event)) error {
	err := c.remote.DeleteRecord(ctx, zone, out.change.ID.String())
	c.metrics.recordSent(ctx, out.change.Op, err)
	if err != nil {
		emit(RecordRemoveFailed{Err: err, Change: out.change})
		// Запись уже удалена на сервере
		if models.ClassifyError(err) == models.ErrKindRecordGone {
			return nil
		}
		return err
	}

	emit(RecordRemoved{Change: out.change})
	return nil
}

// fetchPhase pages through the change feed from the planned cursor.
func (c *Coordinator) fetchPhase(ctx context.Context, plan attemptPlan, emit func(Event)) {
	cursor := plan.cursor
	pages := 0

	for {
		batch, err := c.remote.FetchChanges(ctx, plan.zone, cursor)
		if err != nil {
			if ctx.Err() == nil {
				emit(FetchFailed{Err: err})
			}
			return
		}
		pages++

		if len(batch.Modified) > 0 || len(batch.Deleted) > 0 {
			emit(ChangesFetched{Modified: batch.Modified, Deleted: batch.Deleted})
		}
		if batch.Cursor != nil {
			emit(StateUpdated{Cursor: batch.Cursor})
			cursor = batch.Cursor
		} else if batch.More {
			emit(FetchFailed{Err: errMissingCursor})
			return
		}

		if !batch.More || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		return
	}

	c.logger.Debug("Fetch phase finished", "pages", pages)
	emit(FetchCompleted{})
}
