package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/models"
)

// SaveDocument stores a local edit. LastModified is stamped by the storage clock.
// A zero ID gets a new random one.
func (s *Storage) SaveDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	saved := *doc
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	saved.LastModified = s.clock.Tick()

	if err := s.putJSON(bucketDocuments, saved.ID, &saved); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return &saved, nil
}

// FindDocument returns a document regardless of sync eligibility.
func (s *Storage) FindDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := s.getJSON(bucketDocuments, id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns every local document ordered by name.
func (s *Storage) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	docs := make([]*models.Document, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			doc := &models.Document{}
			if err := json.Unmarshal(v, doc); err != nil {
				return fmt.Errorf("failed to unmarshal document %s: %w", k, err)
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})

	return docs, nil
}

// SyncEligibleDocuments returns every document that is not file-backed.
func (s *Storage) SyncEligibleDocuments(ctx context.Context) ([]*models.Document, error) {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	eligible := docs[:0]
	for _, doc := range docs {
		if doc.SyncEligible() {
			eligible = append(eligible, doc)
		}
	}
	return eligible, nil
}

// GetDocument returns a sync-eligible document.
func (s *Storage) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.FindDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.SyncEligible() {
		return nil, storage.ErrNotSyncEligible
	}
	return doc, nil
}

// ApplyRemoteDocument upserts a server copy as is and advances the clock past it.
// A file-backed local document is left untouched and storage.ErrNotSyncEligible
// is returned.
func (s *Storage) ApplyRemoteDocument(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	key := []byte(doc.ID.String())
	err = s.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if existing := b.Get(key); existing != nil {
			var local models.Document
			if err := json.Unmarshal(existing, &local); err == nil && !local.SyncEligible() {
				return storage.ErrNotSyncEligible
			}
		}
		return b.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to apply remote document: %w", err)
	}

	s.clock.Observe(doc.LastModified)
	return nil
}

// RemoveDocument deletes the document. Missing is not an error.
func (s *Storage) RemoveDocument(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteKey(bucketDocuments, id); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	return nil
}

func (s *Storage) putJSON(bucket []byte, id uuid.UUID, value any) error {
	// Сериализуем значение в JSON
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(id.String()), data)
	})
}

func (s *Storage) getJSON(bucket []byte, id uuid.UUID, value any) error {
	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(id.String()))
		if data == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(data, value)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to read %s %s: %w", bucket, id, err)
	}

	return nil
}

func (s *Storage) deleteKey(bucket []byte, id uuid.UUID) error {
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(id.String()))
	})
}
