package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/scratchpad/internal/client/storage"
	"github.com/euforicio/scratchpad/internal/client/storage/boltdb"
	"github.com/euforicio/scratchpad/internal/client/storage/filestore"
	syncer "github.com/euforicio/scratchpad/internal/client/sync"
	"github.com/euforicio/scratchpad/internal/models"
	"github.com/euforicio/scratchpad/internal/server"
	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/internal/server/storage/sqlite"
)

type device struct {
	coord *syncer.Coordinator
	store *boltdb.Storage
}

func startRecordServer(t *testing.T) (*httptest.Server, handlers.JWTConfig) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	jwtCfg := handlers.JWTConfig{Secret: []byte("e2e-secret"), AccessTokenTTL: time.Hour}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := httptest.NewServer(server.NewRouter(logger, store, server.Config{JWT: jwtCfg}))
	t.Cleanup(ts.Close)
	return ts, jwtCfg
}

func newDevice(t *testing.T, url, token string) *device {
	t.Helper()

	dir := t.TempDir()
	store, err := boltdb.New(context.Background(), filepath.Join(dir, "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := afero.NewOsFs()

	coord, err := syncer.NewCoordinator(syncer.Config{Interval: time.Hour}, syncer.Deps{
		Remote:    NewClient(url, token).WithPageSize(2),
		Metadata:  filestore.NewMetadataCache(fs, filepath.Join(dir, filestore.MetadataFileName), logger),
		Cursor:    filestore.NewCursorStore(fs, filepath.Join(dir, filestore.StateFileName)),
		Pending:   store,
		Settings:  store,
		Documents: store,
		Clipboard: store,
		Logger:    logger,
	})
	require.NoError(t, err)

	require.NoError(t, coord.Start(context.Background()))
	t.Cleanup(coord.Stop)

	d := &device{coord: coord, store: store}
	d.sync(t)
	return d
}

func (d *device) sync(t *testing.T) {
	t.Helper()

	d.coord.Trigger("test")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, d.coord.WaitIdle(ctx))
}

func TestEndToEnd_TwoDevices(t *testing.T) {
	ts, jwtCfg := startRecordServer(t)
	token, _, err := handlers.GenerateAccessToken(jwtCfg, "account-1")
	require.NoError(t, err)
	ctx := context.Background()

	laptop := newDevice(t, ts.URL, token)

	doc, err := laptop.store.SaveDocument(ctx, &models.Document{Name: "notes", Content: "v1", Language: "plain"})
	require.NoError(t, err)
	require.NoError(t, laptop.coord.RecordChanged(ctx, doc.ID))
	for _, text := range []string{"one", "two", "three"} {
		entry, err := laptop.store.AddClipboardEntry(ctx, models.ClipboardText, text)
		require.NoError(t, err)
		require.NoError(t, laptop.coord.RecordChanged(ctx, entry.ID))
	}
	laptop.sync(t)

	status, err := laptop.coord.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Pending)
	assert.False(t, status.FirstSync)

	desktop := newDevice(t, ts.URL, token)

	got, err := desktop.store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)

	entries, err := desktop.store.SyncEligibleClipboardEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Правка на втором устройстве доходит до первого
	got.Content = "v2"
	_, err = desktop.store.SaveDocument(ctx, got)
	require.NoError(t, err)
	require.NoError(t, desktop.coord.RecordChanged(ctx, doc.ID))
	desktop.sync(t)

	laptop.sync(t)
	got, err = laptop.store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	// Удаление тоже
	require.NoError(t, laptop.store.RemoveDocument(ctx, doc.ID))
	require.NoError(t, laptop.coord.RecordDeleted(ctx, doc.ID))
	laptop.sync(t)

	desktop.sync(t)
	_, err = desktop.store.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEndToEnd_AccountsDoNotShareZones(t *testing.T) {
	ts, jwtCfg := startRecordServer(t)
	ctx := context.Background()

	aliceToken, _, err := handlers.GenerateAccessToken(jwtCfg, "alice")
	require.NoError(t, err)
	bobToken, _, err := handlers.GenerateAccessToken(jwtCfg, "bob")
	require.NoError(t, err)

	alice := newDevice(t, ts.URL, aliceToken)
	doc, err := alice.store.SaveDocument(ctx, &models.Document{Name: "private", Content: "secret"})
	require.NoError(t, err)
	require.NoError(t, alice.coord.RecordChanged(ctx, doc.ID))
	alice.sync(t)

	bob := newDevice(t, ts.URL, bobToken)
	docs, err := bob.store.SyncEligibleDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEndToEnd_BadTokenKeepsChangesPending(t *testing.T) {
	ts, _ := startRecordServer(t)
	ctx := context.Background()

	d := newDevice(t, ts.URL, "not-a-token")
	doc, err := d.store.SaveDocument(ctx, &models.Document{Name: "n", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, d.coord.RecordChanged(ctx, doc.ID))
	d.sync(t)

	status, err := d.coord.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)
	assert.True(t, status.ZoneSavePending)
	assert.True(t, status.FirstSync)
	assert.True(t, status.LastSynced.IsZero())
}
