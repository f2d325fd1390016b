package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/euforicio/scratchpad/internal/models"
	"github.com/euforicio/scratchpad/internal/server/storage"
)

// SaveZone creates the zone for the account; an existing zone is left as is
func (s *Storage) SaveZone(ctx context.Context, accountID, zone string) error {
	query := `INSERT INTO zones (account_id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (account_id, name) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, accountID, zone, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save zone: %w", err)
	}

	return nil
}

// DeleteZone removes the zone with all its records
func (s *Storage) DeleteZone(ctx context.Context, accountID, zone string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM zones WHERE account_id = ? AND name = ?`, accountID, zone)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrZoneNotFound
	}

	return nil
}

// storedRecord is a row of the records table
type storedRecord struct {
	id      string
	kind    string
	etag    string
	fields  []byte
	seq     int64
	deleted bool
}

func (r *storedRecord) toModel() (*models.Record, error) {
	rec := &models.Record{
		ID:       r.id,
		Kind:     models.RecordKind(r.kind),
		Metadata: models.VersionMetadata(r.etag),
	}
	if len(r.fields) > 0 {
		if err := json.Unmarshal(r.fields, &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
	}
	return rec, nil
}

// SaveRecord creates or updates a record and returns its new version token
func (s *Storage) SaveRecord(ctx context.Context, accountID, zone string, rec *models.Record) (models.VersionMetadata, error) {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	etag := uuid.NewString()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := zoneExists(ctx, tx, accountID, zone); err != nil {
			return err
		}

		existing, err := getRecord(ctx, tx, accountID, zone, rec.ID)
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			return err
		}

		live := existing != nil && !existing.deleted
		switch {
		case !live && len(rec.Metadata) > 0:
			// Клиент считает, что запись существует, а ее нет
			return storage.ErrRecordNotFound
		case live && string(rec.Metadata) != existing.etag:
			current, err := existing.toModel()
			if err != nil {
				return err
			}
			return &storage.ConflictError{Current: current}
		}

		seq, err := nextSeq(ctx, tx)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO records (account_id, zone, id, kind, fields, etag, seq, deleted, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
			ON CONFLICT (account_id, zone, id) DO UPDATE SET
				kind = excluded.kind,
				fields = excluded.fields,
				etag = excluded.etag,
				seq = excluded.seq,
				deleted = 0,
				updated_at = excluded.updated_at
		`
		if _, err := tx.ExecContext(ctx, query,
			accountID, zone, rec.ID, string(rec.Kind), fields, etag, seq, time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.VersionMetadata(etag), nil
}

// DeleteRecord leaves a tombstone for the record
func (s *Storage) DeleteRecord(ctx context.Context, accountID, zone, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := zoneExists(ctx, tx, accountID, zone); err != nil {
			return err
		}

		existing, err := getRecord(ctx, tx, accountID, zone, id)
		if err != nil {
			return err
		}
		if existing.deleted {
			return storage.ErrRecordNotFound
		}

		seq, err := nextSeq(ctx, tx)
		if err != nil {
			return err
		}

		query := `
			UPDATE records
			SET deleted = 1, fields = NULL, etag = '', seq = ?, updated_at = ?
			WHERE account_id = ? AND zone = ? AND id = ?
		`
		if _, err := tx.ExecContext(ctx, query, seq, time.Now().Unix(), accountID, zone, id); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		return nil
	})
}

// Changes returns up to limit changes after cursor, oldest first
func (s *Storage) Changes(ctx context.Context, accountID, zone string, cursor models.SyncCursor, limit int) (*models.ChangeBatch, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	batch := &models.ChangeBatch{Cursor: encodeCursor(after)}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := zoneExists(ctx, tx, accountID, zone); err != nil {
			return err
		}

		query := `
			SELECT id, kind, fields, etag, seq, deleted
			FROM records
			WHERE account_id = ? AND zone = ? AND seq > ?
			ORDER BY seq
			LIMIT ?
		`
		rows, err := tx.QueryContext(ctx, query, accountID, zone, after, limit+1)
		if err != nil {
			return fmt.Errorf("failed to query changes: %w", err)
		}
		defer func() {
			_ = rows.Close()
		}()

		count := 0
		for rows.Next() {
			if count == limit {
				batch.More = true
				break
			}
			count++

			r, err := scanRecord(rows)
			if err != nil {
				return err
			}

			if r.deleted {
				batch.Deleted = append(batch.Deleted, models.DeletedRecord{ID: r.id, Kind: models.RecordKind(r.kind)})
			} else {
				rec, err := r.toModel()
				if err != nil {
					return err
				}
				batch.Modified = append(batch.Modified, rec)
			}
			batch.Cursor = encodeCursor(r.seq)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*storedRecord, error) {
	r := &storedRecord{}
	var deleted int

	if err := row.Scan(&r.id, &r.kind, &r.fields, &r.etag, &r.seq, &deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	r.deleted = deleted != 0

	return r, nil
}

func getRecord(ctx context.Context, tx *sql.Tx, accountID, zone, id string) (*storedRecord, error) {
	query := `
		SELECT id, kind, fields, etag, seq, deleted
		FROM records
		WHERE account_id = ? AND zone = ? AND id = ?
	`
	return scanRecord(tx.QueryRowContext(ctx, query, accountID, zone, id))
}

func zoneExists(ctx context.Context, tx *sql.Tx, accountID, zone string) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM zones WHERE account_id = ? AND name = ?`, accountID, zone,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrZoneNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check zone: %w", err)
	}
	return nil
}

// nextSeq advances the server-wide change sequence
func nextSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`UPDATE change_seq SET value = value + 1 WHERE id = 1 RETURNING value`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to advance change sequence: %w", err)
	}
	return seq, nil
}

func encodeCursor(seq int64) models.SyncCursor {
	return models.SyncCursor(strconv.FormatInt(seq, 10))
}

func decodeCursor(cursor models.SyncCursor) (int64, error) {
	if len(cursor) == 0 {
		return 0, nil
	}
	seq, err := strconv.ParseInt(string(cursor), 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: %q", storage.ErrInvalidCursor, cursor)
	}
	return seq, nil
}
