package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/scratchpad/internal/models"
	"github.com/euforicio/scratchpad/internal/server/storage"
)

const (
	testAccount = "account-1"
	testZone    = "ScratchpadData"
)

func testRecord(id, content string) *models.Record {
	doc := &models.Document{
		ID:           uuid.MustParse(id),
		Name:         "tab",
		Content:      content,
		Language:     "plain",
		LastModified: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	return doc.ToRecord(nil)
}

func TestRecordStorage_ZoneRequired(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := uuid.NewString()

	_, err := s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "x"))
	assert.ErrorIs(t, err, storage.ErrZoneNotFound)

	assert.ErrorIs(t, s.DeleteRecord(ctx, testAccount, testZone, id), storage.ErrZoneNotFound)
	assert.ErrorIs(t, s.DeleteZone(ctx, testAccount, testZone), storage.ErrZoneNotFound)

	_, err = s.Changes(ctx, testAccount, testZone, nil, 10)
	assert.ErrorIs(t, err, storage.ErrZoneNotFound)
}

func TestRecordStorage_SaveZoneIdempotent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	// Зона принадлежит аккаунту
	_, err := s.Changes(ctx, "other-account", testZone, nil, 10)
	assert.ErrorIs(t, err, storage.ErrZoneNotFound)
}

func TestRecordStorage_SaveVersioning(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	id := uuid.NewString()

	// Токен без записи: клиент ссылается на несуществующую версию
	stale := testRecord(id, "x")
	stale.Metadata = models.VersionMetadata("ghost")
	_, err := s.SaveRecord(ctx, testAccount, testZone, stale)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	v1, err := s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "first"))
	require.NoError(t, err)
	require.NotEmpty(t, v1)

	// Создание поверх существующей записи
	_, err = s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "again"))
	var conflict *storage.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.Equal(t, v1, conflict.Current.Metadata)
	content, ok := conflict.Current.StringField("content")
	require.True(t, ok)
	assert.Equal(t, "first", content)

	update := testRecord(id, "second")
	update.Metadata = v1
	v2, err := s.SaveRecord(ctx, testAccount, testZone, update)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	// Старый токен больше не подходит
	update.Metadata = v1
	_, err = s.SaveRecord(ctx, testAccount, testZone, update)
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestRecordStorage_ChangeFeed(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		_, err := s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "c"))
		require.NoError(t, err)
	}

	first, err := s.Changes(ctx, testAccount, testZone, nil, 2)
	require.NoError(t, err)
	require.Len(t, first.Modified, 2)
	assert.True(t, first.More)
	assert.Equal(t, ids[0], first.Modified[0].ID)
	assert.Equal(t, ids[1], first.Modified[1].ID)

	second, err := s.Changes(ctx, testAccount, testZone, first.Cursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Modified, 1)
	assert.False(t, second.More)
	assert.Equal(t, ids[2], second.Modified[0].ID)
	assert.Equal(t, models.KindDocument, second.Modified[0].Kind)
	assert.NotEmpty(t, second.Modified[0].Metadata)

	require.NoError(t, s.DeleteRecord(ctx, testAccount, testZone, ids[0]))
	assert.ErrorIs(t, s.DeleteRecord(ctx, testAccount, testZone, ids[0]), storage.ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteRecord(ctx, testAccount, testZone, uuid.NewString()), storage.ErrRecordNotFound)

	third, err := s.Changes(ctx, testAccount, testZone, second.Cursor, 10)
	require.NoError(t, err)
	assert.Empty(t, third.Modified)
	assert.Equal(t, []models.DeletedRecord{{ID: ids[0], Kind: models.KindDocument}}, third.Deleted)

	empty, err := s.Changes(ctx, testAccount, testZone, third.Cursor, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Modified)
	assert.Empty(t, empty.Deleted)
	assert.Equal(t, third.Cursor, empty.Cursor)
}

func TestRecordStorage_RecreateAfterDelete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	id := uuid.NewString()
	_, err := s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "a"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteRecord(ctx, testAccount, testZone, id))

	_, err = s.SaveRecord(ctx, testAccount, testZone, testRecord(id, "b"))
	require.NoError(t, err)

	batch, err := s.Changes(ctx, testAccount, testZone, nil, 10)
	require.NoError(t, err)
	require.Len(t, batch.Modified, 1)
	content, _ := batch.Modified[0].StringField("content")
	assert.Equal(t, "b", content)
}

func TestRecordStorage_DeleteZoneDropsRecords(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	_, err := s.SaveRecord(ctx, testAccount, testZone, testRecord(uuid.NewString(), "a"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteZone(ctx, testAccount, testZone))
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	batch, err := s.Changes(ctx, testAccount, testZone, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, batch.Modified)
}

func TestRecordStorage_InvalidCursor(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()
	require.NoError(t, s.SaveZone(ctx, testAccount, testZone))

	_, err := s.Changes(ctx, testAccount, testZone, models.SyncCursor("garbage"), 10)
	assert.ErrorIs(t, err, storage.ErrInvalidCursor)
}
