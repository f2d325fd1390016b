package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/models"
)

// DocumentStore is the local tab store as seen by the sync engine.
type DocumentStore interface {
	// SyncEligibleDocuments returns every document that may be uploaded
	SyncEligibleDocuments(ctx context.Context) ([]*models.Document, error)

	// GetDocument returns a sync-eligible document.
	// Returns ErrNotFound or ErrNotSyncEligible.
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)

	// ApplyRemoteDocument upserts a copy received from the server
	ApplyRemoteDocument(ctx context.Context, doc *models.Document) error

	// RemoveDocument deletes the document; missing is not an error
	RemoveDocument(ctx context.Context, id uuid.UUID) error
}

// ClipboardStore is the local clipboard history as seen by the sync engine.
type ClipboardStore interface {
	// SyncEligibleClipboardEntries returns every entry that may be uploaded
	SyncEligibleClipboardEntries(ctx context.Context) ([]*models.ClipboardEntry, error)

	// GetClipboardEntry returns a sync-eligible entry.
	// Returns ErrNotFound or ErrNotSyncEligible.
	GetClipboardEntry(ctx context.Context, id uuid.UUID) (*models.ClipboardEntry, error)

	// ApplyRemoteClipboardEntry upserts a copy received from the server
	ApplyRemoteClipboardEntry(ctx context.Context, entry *models.ClipboardEntry) error

	// RemoveClipboardEntry deletes the entry; missing is not an error
	RemoveClipboardEntry(ctx context.Context, id uuid.UUID) error
}
