package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/crdt"
	"github.com/euforicio/scratchpad/internal/models"
)

func TestDocuments_SaveStampsMonotonic(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := crdt.NewClockWithSource(func() time.Time { return fixed })

	store, err := NewWithClock(ctx, filepath.Join(t.TempDir(), "test.db"), clock)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.SaveDocument(ctx, &models.Document{Name: "a", Content: "1"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, fixed, doc.LastModified)

	doc.Content = "2"
	edited, err := store.SaveDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, edited.LastModified.After(doc.LastModified))

	found, err := store.FindDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", found.Content)
}

func TestDocuments_Eligibility(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	scratch, err := store.SaveDocument(ctx, &models.Document{Name: "scratch"})
	require.NoError(t, err)
	file, err := store.SaveDocument(ctx, &models.Document{Name: "file", FilePath: "/tmp/file.txt"})
	require.NoError(t, err)

	eligible, err := store.SyncEligibleDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, scratch.ID, eligible[0].ID)

	_, err = store.GetDocument(ctx, file.ID)
	assert.ErrorIs(t, err, storage.ErrNotSyncEligible)

	_, err = store.GetDocument(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDocuments_ApplyRemoteAdvancesClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := crdt.NewClockWithSource(func() time.Time { return fixed })

	store, err := NewWithClock(ctx, filepath.Join(t.TempDir(), "test.db"), clock)
	require.NoError(t, err)
	defer store.Close()

	remote := &models.Document{
		ID:           uuid.New(),
		Name:         "remote",
		Content:      "from server",
		LastModified: fixed.Add(time.Hour),
	}
	require.NoError(t, store.ApplyRemoteDocument(ctx, remote))

	got, err := store.GetDocument(ctx, remote.ID)
	require.NoError(t, err)
	assert.Equal(t, "from server", got.Content)
	assert.True(t, remote.LastModified.Equal(got.LastModified))

	got.Content = "local edit"
	edited, err := store.SaveDocument(ctx, got)
	require.NoError(t, err)
	assert.True(t, edited.LastModified.After(remote.LastModified))
}

func TestDocuments_Remove(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	doc, err := store.SaveDocument(ctx, &models.Document{Name: "x"})
	require.NoError(t, err)

	require.NoError(t, store.RemoveDocument(ctx, doc.ID))
	_, err = store.FindDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Повторное удаление не ошибка
	require.NoError(t, store.RemoveDocument(ctx, doc.ID))
}

func TestClipboard(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	text, err := store.AddClipboardEntry(ctx, models.ClipboardText, "hello")
	require.NoError(t, err)
	image, err := store.AddClipboardEntry(ctx, models.ClipboardImage, "")
	require.NoError(t, err)

	all, err := store.ListClipboardEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Новые сверху
	assert.Equal(t, image.ID, all[0].ID)

	eligible, err := store.SyncEligibleClipboardEntries(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, text.ID, eligible[0].ID)

	_, err = store.GetClipboardEntry(ctx, image.ID)
	assert.ErrorIs(t, err, storage.ErrNotSyncEligible)

	remote := &models.ClipboardEntry{ID: uuid.New(), Text: "remote", Kind: models.ClipboardText, Timestamp: time.Now().UTC()}
	require.NoError(t, store.ApplyRemoteClipboardEntry(ctx, remote))
	got, err := store.GetClipboardEntry(ctx, remote.ID)
	require.NoError(t, err)
	assert.Equal(t, "remote", got.Text)

	require.NoError(t, store.RemoveClipboardEntry(ctx, remote.ID))
	_, err = store.GetClipboardEntry(ctx, remote.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocuments_ApplyRemoteKeepsFileBacked(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	local, err := store.SaveDocument(ctx, &models.Document{Name: "notes", Content: "on disk", FilePath: "/home/u/notes.txt"})
	require.NoError(t, err)

	remote := *local
	remote.FilePath = ""
	remote.Content = "from other device"
	remote.LastModified = local.LastModified.Add(time.Hour)

	err = store.ApplyRemoteDocument(ctx, &remote)
	assert.ErrorIs(t, err, storage.ErrNotSyncEligible)

	found, err := store.FindDocument(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/notes.txt", found.FilePath)
	assert.Equal(t, "on disk", found.Content)
}
