package storage

import "github.com/euforicio/scratchpad/internal/models"

// MetadataCache maps record names to the server's version token.
// Reads are served from memory; every mutation is persisted.
// A persist error is advisory: the in-memory value is already updated.
type MetadataCache interface {
	// Get returns the cached token for the record
	Get(id string) (models.VersionMetadata, bool)

	// Put stores the token for the record
	Put(id string, meta models.VersionMetadata) error

	// Remove drops the token for the record
	Remove(id string) error

	// Clear drops every token
	Clear() error

	// Len returns the number of cached tokens
	Len() int
}

// StateStore persists the change-feed cursor.
type StateStore interface {
	// Load returns the stored cursor; nil when never synced
	Load() (models.SyncCursor, error)

	// Save replaces the stored cursor
	Save(cursor models.SyncCursor) error

	// Reset forgets the cursor so the next fetch starts from scratch
	Reset() error
}
