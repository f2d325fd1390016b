package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyProtocolVersion = "protocol_version"
	keyLastSynced      = "last_synced"
	keyAccount         = "account"
)

// ProtocolVersion returns the stored sync protocol version, 0 if none.
func (s *Storage) ProtocolVersion(ctx context.Context) (int, error) {
	value, err := s.getSetting([]byte(keyProtocolVersion))
	if err != nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, nil
	}
	return int(binary.BigEndian.Uint64(value)), nil
}

// SetProtocolVersion stores the sync protocol version.
func (s *Storage) SetProtocolVersion(ctx context.Context, version int) error {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(version))
	return s.putSetting([]byte(keyProtocolVersion), value)
}

// LastSynced returns the time of the last successful sync phase.
// Returns zero time if no sync has been performed yet.
func (s *Storage) LastSynced(ctx context.Context) (time.Time, error) {
	value, err := s.getSetting([]byte(keyLastSynced))
	if err != nil {
		return time.Time{}, err
	}
	if len(value) != 8 {
		return time.Time{}, nil
	}

	// Конвертируем bytes в unix nano
	return time.Unix(0, int64(binary.BigEndian.Uint64(value))).UTC(), nil
}

// SetLastSynced stores the time of the last successful sync phase.
func (s *Storage) SetLastSynced(ctx context.Context, t time.Time) error {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(t.UnixNano()))
	return s.putSetting([]byte(keyLastSynced), value)
}

// Account returns the account the local sync state belongs to, empty if none.
func (s *Storage) Account(ctx context.Context) (string, error) {
	value, err := s.getSetting([]byte(keyAccount))
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetAccount records the account of the local sync state. Empty forgets it.
func (s *Storage) SetAccount(ctx context.Context, account string) error {
	if account == "" {
		return s.deleteSetting([]byte(keyAccount))
	}
	return s.putSetting([]byte(keyAccount), []byte(account))
}

func (s *Storage) getSetting(key []byte) ([]byte, error) {
	var value []byte

	err := s.view(func(tx *bbolt.Tx) error {
		// Значение валидно только внутри транзакции, копируем
		if v := tx.Bucket(bucketSettings).Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	return value, nil
}

func (s *Storage) putSetting(key, value []byte) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (s *Storage) deleteSetting(key []byte) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
