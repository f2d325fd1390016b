package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/models"
)

// AddClipboardEntry records a new clipboard item captured on this device.
func (s *Storage) AddClipboardEntry(ctx context.Context, kind models.ClipboardKind, text string) (*models.ClipboardEntry, error) {
	entry := &models.ClipboardEntry{
		ID:        uuid.New(),
		Kind:      kind,
		Text:      text,
		Timestamp: s.clock.Tick(),
	}

	if err := s.putJSON(bucketClipboard, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to add clipboard entry: %w", err)
	}

	return entry, nil
}

// ListClipboardEntries returns clipboard history, newest first.
func (s *Storage) ListClipboardEntries(ctx context.Context) ([]*models.ClipboardEntry, error) {
	entries := make([]*models.ClipboardEntry, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClipboard).ForEach(func(k, v []byte) error {
			entry := &models.ClipboardEntry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return fmt.Errorf("failed to unmarshal clipboard entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clipboard entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// SyncEligibleClipboardEntries returns every text entry.
func (s *Storage) SyncEligibleClipboardEntries(ctx context.Context) ([]*models.ClipboardEntry, error) {
	entries, err := s.ListClipboardEntries(ctx)
	if err != nil {
		return nil, err
	}

	eligible := entries[:0]
	for _, entry := range entries {
		if entry.SyncEligible() {
			eligible = append(eligible, entry)
		}
	}
	return eligible, nil
}

// GetClipboardEntry returns a sync-eligible entry.
func (s *Storage) GetClipboardEntry(ctx context.Context, id uuid.UUID) (*models.ClipboardEntry, error) {
	var entry models.ClipboardEntry
	if err := s.getJSON(bucketClipboard, id, &entry); err != nil {
		return nil, err
	}
	if !entry.SyncEligible() {
		return nil, storage.ErrNotSyncEligible
	}
	return &entry, nil
}

// ApplyRemoteClipboardEntry upserts a server copy.
func (s *Storage) ApplyRemoteClipboardEntry(ctx context.Context, entry *models.ClipboardEntry) error {
	if err := s.putJSON(bucketClipboard, entry.ID, entry); err != nil {
		return fmt.Errorf("failed to apply remote clipboard entry: %w", err)
	}
	s.clock.Observe(entry.Timestamp)
	return nil
}

// RemoveClipboardEntry deletes the entry. Missing is not an error.
func (s *Storage) RemoveClipboardEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteKey(bucketClipboard, id); err != nil {
		return fmt.Errorf("failed to remove clipboard entry: %w", err)
	}
	return nil
}
