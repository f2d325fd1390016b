package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func TestNew_RunsMigrations(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, table := range []string{"zones", "records", "change_seq"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	assert.NoError(t, s.Ping(context.Background()))
}

func TestNew_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveZone(ctx, "acc", "zone"))
	require.NoError(t, s.Close())

	// Повторное открытие не должно падать на уже примененных миграциях
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	batch, err := s.Changes(ctx, "acc", "zone", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, batch.Modified)
}
