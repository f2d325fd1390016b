package sync

import (
	"context"

	"github.com/euforicio/scratchpad/internal/models"
)

//go:generate moq -out remote_mock.go . RemoteService

// RemoteService is the remote record service as seen by the coordinator.
// Failures should be *models.RemoteError so they can be classified.
type RemoteService interface {
	// SaveZone creates the record zone; saving an existing zone is a no-op
	SaveZone(ctx context.Context, zone string) error

	// DeleteZone removes the zone and every record in it
	DeleteZone(ctx context.Context, zone string) error

	// SaveRecord uploads rec and returns the new version token.
	// rec.Metadata nil means create.
	SaveRecord(ctx context.Context, zone string, rec *models.Record) (models.VersionMetadata, error)

	// DeleteRecord removes the record by name
	DeleteRecord(ctx context.Context, zone, id string) error

	// FetchChanges returns one page of changes after cursor; nil cursor fetches everything
	FetchChanges(ctx context.Context, zone string, cursor models.SyncCursor) (*models.ChangeBatch, error)
}
