package filestore

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/euforicio/scratchpad/internal/models"
)

// CursorStore is a SyncStateStore holding the cursor as an opaque blob.
type CursorStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewCursorStore creates a cursor store backed by path.
func NewCursorStore(fs afero.Fs, path string) *CursorStore {
	return &CursorStore{fs: fs, path: path}
}

// Load returns the stored cursor, or nil if none is stored.
func (s *CursorStore) Load() (models.SyncCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := readFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	return models.SyncCursor(data), nil
}

// Save atomically replaces the stored cursor. A nil cursor resets it.
func (s *CursorStore) Save(cursor models.SyncCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(cursor) == 0 {
		return s.resetLocked()
	}

	if err := writeFileAtomic(s.fs, s.path, cursor); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

// Reset deletes the stored cursor.
func (s *CursorStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resetLocked()
}

func (s *CursorStore) resetLocked() error {
	if err := removeFile(s.fs, s.path); err != nil {
		return fmt.Errorf("failed to reset sync state: %w", err)
	}
	return nil
}
