package filestore

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/scratchpad/internal/models"
)

const testMetadataPath = "/data/" + MetadataFileName

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMetadataCache_PutGetPersist(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := NewMetadataCache(fs, testMetadataPath, setupTestLogger())

	_, ok := cache.Get("a")
	assert.False(t, ok)

	require.NoError(t, cache.Put("a", models.VersionMetadata("token-a")))
	require.NoError(t, cache.Put("b", models.VersionMetadata("token-b")))
	assert.Equal(t, 2, cache.Len())

	// Новый экземпляр читает то же самое с диска
	reloaded := NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	meta, ok := reloaded.Get("a")
	require.True(t, ok)
	assert.Equal(t, models.VersionMetadata("token-a"), meta)
	assert.Equal(t, 2, reloaded.Len())
}

func TestMetadataCache_RemoveAndClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := NewMetadataCache(fs, testMetadataPath, setupTestLogger())

	require.NoError(t, cache.Put("a", models.VersionMetadata("1")))
	require.NoError(t, cache.Put("b", models.VersionMetadata("2")))

	require.NoError(t, cache.Remove("a"))
	require.NoError(t, cache.Remove("missing"))
	_, ok := cache.Get("a")
	assert.False(t, ok)

	reloaded := NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	assert.Equal(t, 1, reloaded.Len())

	require.NoError(t, cache.Clear())
	assert.Equal(t, 0, cache.Len())

	reloaded = NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	assert.Equal(t, 0, reloaded.Len())
}

func TestMetadataCache_CorruptFileLoadsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testMetadataPath, []byte("{not json"), 0o600))

	cache := NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	assert.Equal(t, 0, cache.Len())

	// После первой записи файл снова валиден
	require.NoError(t, cache.Put("a", models.VersionMetadata("1")))
	reloaded := NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	assert.Equal(t, 1, reloaded.Len())
}

func TestMetadataCache_PersistFailureKeepsMemory(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	cache := NewMetadataCache(fs, testMetadataPath, setupTestLogger())

	err := cache.Put("a", models.VersionMetadata("1"))
	require.Error(t, err)

	meta, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, models.VersionMetadata("1"), meta)
}

func TestMetadataCache_NoTempFileLeft(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := NewMetadataCache(fs, testMetadataPath, setupTestLogger())
	require.NoError(t, cache.Put("a", models.VersionMetadata("1")))

	exists, err := afero.Exists(fs, testMetadataPath+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}
