package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/euforicio/scratchpad/internal/models"
)

const keyZoneSavePending = "zone_save_pending"

// AddPending enqueues op for id, replacing any earlier change for the same id.
func (s *Storage) AddPending(ctx context.Context, op models.ChangeOp, id uuid.UUID) (models.PendingChange, error) {
	var change models.PendingChange

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)

		// Последовательность bucket'а растет при каждом добавлении
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}

		change = models.PendingChange{Op: op, ID: id, Seq: seq}
		data, err := json.Marshal(change)
		if err != nil {
			return fmt.Errorf("failed to marshal pending change: %w", err)
		}

		return bucket.Put([]byte(id.String()), data)
	})
	if err != nil {
		return models.PendingChange{}, fmt.Errorf("failed to add pending change: %w", err)
	}

	return change, nil
}

// RemovePending drops change if it is still the current one for its id.
// A newer change for the same id is left in place.
func (s *Storage) RemovePending(ctx context.Context, change models.PendingChange) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		key := []byte(change.ID.String())

		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		var current models.PendingChange
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("failed to unmarshal pending change: %w", err)
		}
		if current.Seq != change.Seq {
			return nil
		}

		return bucket.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("failed to remove pending change: %w", err)
	}

	return nil
}

// ListPending returns queued changes ordered by sequence.
func (s *Storage) ListPending(ctx context.Context) ([]models.PendingChange, error) {
	changes := make([]models.PendingChange, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPending).ForEach(func(k, v []byte) error {
			var change models.PendingChange
			if err := json.Unmarshal(v, &change); err != nil {
				return fmt.Errorf("failed to unmarshal pending change %s: %w", k, err)
			}
			changes = append(changes, change)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending changes: %w", err)
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Seq < changes[j].Seq
	})

	return changes, nil
}

// MarkZoneSave enqueues creation of the remote zone.
func (s *Storage) MarkZoneSave(ctx context.Context) error {
	return s.putSetting([]byte(keyZoneSavePending), []byte{1})
}

// ZoneSavePending reports whether a zone save is queued.
func (s *Storage) ZoneSavePending(ctx context.Context) (bool, error) {
	value, err := s.getSetting([]byte(keyZoneSavePending))
	if err != nil {
		return false, err
	}
	return len(value) > 0, nil
}

// ClearZoneSave drops the queued zone save.
func (s *Storage) ClearZoneSave(ctx context.Context) error {
	return s.deleteSetting([]byte(keyZoneSavePending))
}
