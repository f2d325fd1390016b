package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/crdt"
)

var (
	_ storage.DocumentStore  = (*Storage)(nil)
	_ storage.ClipboardStore = (*Storage)(nil)
	_ storage.PendingStore   = (*Storage)(nil)
	_ storage.SettingsStore  = (*Storage)(nil)
)

var (
	// BoltDB bucket names
	bucketDocuments = []byte("documents")
	bucketClipboard = []byte("clipboard")
	bucketPending   = []byte("pending")
	bucketSettings  = []byte("settings")
)

// Storage represents BoltDB storage implementation for client:
// local tabs, clipboard history, the pending change set and sync settings.
type Storage struct {
	db    *bbolt.DB
	clock *crdt.Clock
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	return NewWithClock(ctx, dbPath, crdt.NewClock())
}

// NewWithClock creates storage stamping local edits with clock
func NewWithClock(ctx context.Context, dbPath string, clock *crdt.Clock) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Storage{db: db, clock: clock}

	// Инициализируем buckets
	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocuments, bucketClipboard, bucketPending, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}
