package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/models"
)

// PendingStore is the durable queue of local intents waiting to be sent.
// It holds at most one change per record; a later Add overwrites the earlier
// one and receives a higher sequence number.
type PendingStore interface {
	// AddPending enqueues op for id and returns the stored change
	AddPending(ctx context.Context, op models.ChangeOp, id uuid.UUID) (models.PendingChange, error)

	// RemovePending drops the change only if it is still the current one for its ID
	RemovePending(ctx context.Context, change models.PendingChange) error

	// ListPending returns queued changes ordered by sequence
	ListPending(ctx context.Context) ([]models.PendingChange, error)

	// MarkZoneSave enqueues creation of the remote zone
	MarkZoneSave(ctx context.Context) error

	// ZoneSavePending reports whether a zone save is queued
	ZoneSavePending(ctx context.Context) (bool, error)

	// ClearZoneSave drops the queued zone save
	ClearZoneSave(ctx context.Context) error
}

// SettingsStore keeps small sync settings.
type SettingsStore interface {
	// ProtocolVersion returns the stored sync protocol version, 0 if never stored
	ProtocolVersion(ctx context.Context) (int, error)

	// SetProtocolVersion stores the sync protocol version
	SetProtocolVersion(ctx context.Context, version int) error

	// LastSynced returns the time of the last successful phase, zero if never
	LastSynced(ctx context.Context) (time.Time, error)

	// SetLastSynced stores the time of the last successful phase
	SetLastSynced(ctx context.Context, t time.Time) error
}
