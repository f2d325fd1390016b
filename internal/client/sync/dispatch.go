package sync

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/crdt"
	"github.com/euforicio/scratchpad/internal/models"
)

// view is the read-only state dispatch decides on.
// It reflects the state before any action of the current event is executed.
type view interface {
	FirstSync() bool
	HasMetadata(id string) bool
	HasLocal(kind models.RecordKind, id uuid.UUID) bool
	LocalDocument(id uuid.UUID) (*models.Document, bool)
}

// action is one state mutation decided by dispatch and performed by execute.
type action interface {
	isAction()
}

type (
	putMetadata struct {
		id   string
		meta models.VersionMetadata
	}
	removeMetadata  struct{ id string }
	clearMetadata   struct{}
	saveCursor      struct{ cursor models.SyncCursor }
	resetCursor     struct{}
	dequeue         struct{ change models.PendingChange }
	enqueueSave     struct{ id uuid.UUID }
	enqueueZoneSave struct{}
	clearZoneSave   struct{}
	reuploadAll     struct{}
	applyDocument   struct{ doc *models.Document }
	applyClipboard  struct{ entry *models.ClipboardEntry }
	removeLocal     struct {
		kind models.RecordKind
		id   uuid.UUID
	}
	finishFirstSync struct{}
	markSynced      struct{}
	countConflict   struct {
		kind       models.RecordKind
		resolution crdt.Resolution
	}
	logEntry struct {
		msg   string
		args  []any
		level slog.Level
	}
)

func (putMetadata) isAction()     {}
func (removeMetadata) isAction()  {}
func (clearMetadata) isAction()   {}
func (saveCursor) isAction()      {}
func (resetCursor) isAction()     {}
func (dequeue) isAction()         {}
func (enqueueSave) isAction()     {}
func (enqueueZoneSave) isAction() {}
func (clearZoneSave) isAction()   {}
func (reuploadAll) isAction()     {}
func (applyDocument) isAction()   {}
func (applyClipboard) isAction()  {}
func (removeLocal) isAction()     {}
func (finishFirstSync) isAction() {}
func (markSynced) isAction()      {}
func (countConflict) isAction()   {}
func (logEntry) isAction()        {}

func warn(msg string, args ...any) logEntry {
	return logEntry{level: slog.LevelWarn, msg: msg, args: args}
}

func debug(msg string, args ...any) logEntry {
	return logEntry{level: slog.LevelDebug, msg: msg, args: args}
}

// dispatch maps an event to the actions it requires. It has no side effects.
func dispatch(v view, ev Event) []action {
	switch ev := ev.(type) {
	case AccountChanged:
		return dispatchAccount(ev)
	case ZoneDeleted:
		return []action{
			warn("Remote zone deleted, clearing sync state"),
			clearMetadata{},
			resetCursor{},
		}
	case ZoneSaved:
		return []action{clearZoneSave{}}
	case ZoneSaveFailed:
		return []action{warn("Failed to save zone", "kind", models.ClassifyError(ev.Err), "error", ev.Err)}
	case RecordSaved:
		return []action{
			putMetadata{id: ev.Change.ID.String(), meta: ev.Metadata},
			dequeue{change: ev.Change},
		}
	case RecordSaveFailed:
		return dispatchSaveFailed(ev)
	case RecordRemoved:
		return []action{
			removeMetadata{id: ev.Change.ID.String()},
			dequeue{change: ev.Change},
		}
	case RecordRemoveFailed:
		return dispatchRemoveFailed(ev)
	case ChangesFetched:
		return dispatchFetched(v, ev)
	case StateUpdated:
		return []action{saveCursor{cursor: ev.Cursor}}
	case SendCompleted:
		if ev.Failed > 0 {
			return []action{debug("Send phase finished with failures", "failed", ev.Failed)}
		}
		return []action{finishFirstSync{}, markSynced{}}
	case FetchCompleted:
		return []action{markSynced{}}
	case FetchFailed:
		if models.ClassifyError(ev.Err) == models.ErrKindZoneMissing {
			return []action{
				warn("Remote zone missing during fetch, clearing sync state", "error", ev.Err),
				clearMetadata{},
				resetCursor{},
			}
		}
		return []action{warn("Failed to fetch changes", "kind", models.ClassifyError(ev.Err), "error", ev.Err)}
	}

	return []action{warn("Unhandled sync event", "event", ev.eventName())}
}

func dispatchAccount(ev AccountChanged) []action {
	switch ev.Change {
	case AccountSignedIn:
		return []action{enqueueZoneSave{}, reuploadAll{}}
	case AccountSignedOut, AccountSwitched:
		return []action{clearMetadata{}, resetCursor{}}
	}
	return nil
}

func dispatchSaveFailed(ev RecordSaveFailed) []action {
	id := ev.Change.ID.String()
	kind := models.ClassifyError(ev.Err)

	switch kind {
	case models.ErrKindConflict:
		return dispatchConflict(ev)
	case models.ErrKindZoneMissing:
		// Зона пропала: создаем заново и отправляем запись как новую
		return []action{
			enqueueZoneSave{},
			removeMetadata{id: id},
			enqueueSave{id: ev.Change.ID},
		}
	case models.ErrKindRecordGone:
		return []action{
			removeMetadata{id: id},
			enqueueSave{id: ev.Change.ID},
		}
	}

	return []action{warn("Failed to save record", "record_id", id, "kind", kind, "error", ev.Err)}
}

func dispatchConflict(ev RecordSaveFailed) []action {
	id := ev.Change.ID.String()

	server := models.ServerRecordOf(ev.Err)
	if server == nil {
		return []action{warn("Conflict without server record", "record_id", id, "error", ev.Err)}
	}

	acts := []action{putMetadata{id: id, meta: server.Metadata}}

	switch ev.Sent.Kind {
	case models.KindDocument:
		local, err := models.DocumentFromRecord(ev.Sent)
		if err != nil {
			return append(acts, warn("Sent document is malformed", "record_id", id, "error", err))
		}
		remote, err := models.DocumentFromRecord(server)
		if err != nil {
			// Серверную копию применить нельзя, оставляем локальную
			return append(acts,
				warn("Server copy of document is malformed, keeping local", "record_id", id, "error", err),
				countConflict{kind: models.KindDocument, resolution: crdt.LocalWins},
				enqueueSave{id: ev.Change.ID},
			)
		}

		resolution := crdt.ResolveDocument(local, remote)
		acts = append(acts, countConflict{kind: models.KindDocument, resolution: resolution})
		if resolution == crdt.LocalWins {
			return append(acts, enqueueSave{id: ev.Change.ID})
		}
		return append(acts, applyDocument{doc: remote}, dequeue{change: ev.Change})

	case models.KindClipboardEntry:
		remote, err := models.ClipboardFromRecord(server)
		if err != nil {
			return append(acts,
				warn("Server copy of clipboard entry is malformed", "record_id", id, "error", err),
				dequeue{change: ev.Change},
			)
		}
		return append(acts,
			countConflict{kind: models.KindClipboardEntry, resolution: crdt.ResolveClipboardEntry(nil, remote)},
			applyClipboard{entry: remote},
			dequeue{change: ev.Change},
		)
	}

	return append(acts, warn("Conflict on unknown record kind", "record_id", id, "kind", ev.Sent.Kind))
}

func dispatchRemoveFailed(ev RecordRemoveFailed) []action {
	id := ev.Change.ID.String()
	kind := models.ClassifyError(ev.Err)

	switch kind {
	case models.ErrKindRecordGone:
		// Записи уже нет на сервере, удаление считаем выполненным
		return []action{removeMetadata{id: id}, dequeue{change: ev.Change}}
	case models.ErrKindZoneMissing:
		return []action{enqueueZoneSave{}, removeMetadata{id: id}, dequeue{change: ev.Change}}
	}

	return []action{warn("Failed to delete record", "record_id", id, "kind", kind, "error", ev.Err)}
}

func dispatchFetched(v view, ev ChangesFetched) []action {
	acts := make([]action, 0, 2*len(ev.Modified)+2*len(ev.Deleted))

	for _, rec := range ev.Modified {
		// Проверяем наличие метаданных до их обновления
		hadMetadata := v.HasMetadata(rec.ID)
		if len(rec.Metadata) > 0 {
			acts = append(acts, putMetadata{id: rec.ID, meta: rec.Metadata})
		}

		switch rec.Kind {
		case models.KindDocument:
			doc, err := models.DocumentFromRecord(rec)
			if err != nil {
				acts = append(acts, warn("Skipping malformed document", "record_id", rec.ID, "error", err))
				continue
			}
			if v.FirstSync() && !hadMetadata && v.HasLocal(models.KindDocument, doc.ID) {
				acts = append(acts, debug("First sync keeps local document", "record_id", rec.ID))
				continue
			}
			local, eligible := v.LocalDocument(doc.ID)
			if !eligible && v.HasLocal(models.KindDocument, doc.ID) {
				// Вкладка привязана к файлу и больше не синхронизируется
				acts = append(acts, debug("Keeping file-backed local document", "record_id", rec.ID))
				continue
			}
			if eligible && crdt.ResolveDocument(local, doc) == crdt.LocalWins {
				acts = append(acts,
					debug("Local document is newer than fetched copy", "record_id", rec.ID),
					enqueueSave{id: doc.ID},
				)
				continue
			}
			acts = append(acts, applyDocument{doc: doc})

		case models.KindClipboardEntry:
			entry, err := models.ClipboardFromRecord(rec)
			if err != nil {
				acts = append(acts, warn("Skipping malformed clipboard entry", "record_id", rec.ID, "error", err))
				continue
			}
			if v.FirstSync() && !hadMetadata && v.HasLocal(models.KindClipboardEntry, entry.ID) {
				acts = append(acts, debug("First sync keeps local clipboard entry", "record_id", rec.ID))
				continue
			}
			acts = append(acts, applyClipboard{entry: entry})

		default:
			acts = append(acts, warn("Skipping record", "record_id", rec.ID, "error", fmt.Errorf("%w: %s", models.ErrUnknownKind, rec.Kind)))
		}
	}

	for _, del := range ev.Deleted {
		acts = append(acts, removeMetadata{id: del.ID})

		id, err := uuid.Parse(del.ID)
		if err != nil || !del.Kind.Known() {
			continue
		}
		acts = append(acts, removeLocal{kind: del.Kind, id: id})
	}

	return acts
}
