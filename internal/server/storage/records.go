package storage

import (
	"context"

	"github.com/euforicio/scratchpad/internal/models"
)

// RecordStorage defines persistence for zones and their records.
// Every mutation advances a per-server change sequence so the change feed
// can report it, deletions included.
type RecordStorage interface {
	// SaveZone creates the zone for the account; an existing zone is left as is
	SaveZone(ctx context.Context, accountID, zone string) error

	// DeleteZone removes the zone with all its records
	// Returns ErrZoneNotFound if zone doesn't exist
	DeleteZone(ctx context.Context, accountID, zone string) error

	// SaveRecord creates or updates a record and returns its new version token.
	// rec.Metadata must match the stored token for an update.
	// Returns ErrZoneNotFound, ErrRecordNotFound (token given, record absent)
	// or *ConflictError (stale or missing token)
	SaveRecord(ctx context.Context, accountID, zone string, rec *models.Record) (models.VersionMetadata, error)

	// DeleteRecord leaves a tombstone for the record
	// Returns ErrZoneNotFound or ErrRecordNotFound
	DeleteRecord(ctx context.Context, accountID, zone, id string) error

	// Changes returns up to limit changes after cursor, oldest first
	// Returns ErrZoneNotFound or ErrInvalidCursor
	Changes(ctx context.Context, accountID, zone string, cursor models.SyncCursor, limit int) (*models.ChangeBatch, error)

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
}
