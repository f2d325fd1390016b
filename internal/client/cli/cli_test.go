package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euforicio/scratchpad/internal/server"
	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/internal/server/storage/sqlite"
)

var idPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

type testCli struct {
	dataDir string
	args    []string
}

func newTestCli(t *testing.T, args ...string) *testCli {
	t.Helper()
	return &testCli{
		dataDir: t.TempDir(),
		args:    args,
	}
}

// run executes one command the way a separate process would
func (tc *testCli) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	c := New()
	root := c.Command("test")

	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)

	full := append([]string{"--data-dir", tc.dataDir, "--log-level", "error"}, tc.args...)
	root.SetArgs(append(full, args...))

	err := root.ExecuteContext(context.Background())
	require.NoError(t, c.Close())
	return out.String(), err
}

func (tc *testCli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tc.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func startServer(t *testing.T) (*httptest.Server, handlers.JWTConfig) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	jwtCfg := handlers.JWTConfig{Secret: []byte("cli-test-secret"), AccessTokenTTL: time.Hour}
	ts := httptest.NewServer(server.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), store, server.Config{JWT: jwtCfg}))
	t.Cleanup(ts.Close)
	return ts, jwtCfg
}

func token(t *testing.T, cfg handlers.JWTConfig, account string) string {
	t.Helper()
	tok, _, err := handlers.GenerateAccessToken(cfg, account)
	require.NoError(t, err)
	return tok
}

func TestTab_Lifecycle(t *testing.T) {
	t.Setenv("SCRATCHPAD_SYNC_ENABLED", "false")
	tc := newTestCli(t)

	out := tc.mustRun(t, "tab", "new", "notes", "--content", "hello", "--language", "go")
	id := idPattern.FindString(out)
	require.NotEmpty(t, id, out)

	out = tc.mustRun(t, "tab", "ls")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "go")

	tc.mustRun(t, "tab", "edit", id, "--content", "bye", "--name", "renamed")
	assert.Equal(t, "bye\n", tc.mustRun(t, "tab", "cat", id))
	assert.Contains(t, tc.mustRun(t, "tab", "ls"), "renamed")

	tc.mustRun(t, "tab", "rm", id)
	assert.Contains(t, tc.mustRun(t, "tab", "ls"), "No tabs found.")

	_, err := tc.run(t, "", "tab", "cat", id)
	assert.Error(t, err)
}

func TestTab_ContentFromStdin(t *testing.T) {
	t.Setenv("SCRATCHPAD_SYNC_ENABLED", "false")
	tc := newTestCli(t)

	out, err := tc.run(t, "line one\nline two\n", "tab", "new", "piped")
	require.NoError(t, err)
	id := idPattern.FindString(out)

	assert.Equal(t, "line one\nline two\n", tc.mustRun(t, "tab", "cat", id))

	_, err = tc.run(t, "replaced\n", "tab", "edit", id)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", tc.mustRun(t, "tab", "cat", id))
}

func TestTab_InvalidID(t *testing.T) {
	t.Setenv("SCRATCHPAD_SYNC_ENABLED", "false")
	tc := newTestCli(t)

	_, err := tc.run(t, "", "tab", "rm", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid id")
}

func TestClip_AddListRemove(t *testing.T) {
	t.Setenv("SCRATCHPAD_SYNC_ENABLED", "false")
	tc := newTestCli(t)

	out := tc.mustRun(t, "clip", "add", "copied text")
	id := idPattern.FindString(out)
	tc.mustRun(t, "clip", "add", "--image")

	out = tc.mustRun(t, "clip", "ls")
	assert.Contains(t, out, "copied text")
	assert.Contains(t, out, "[image]")

	tc.mustRun(t, "clip", "rm", id)
	assert.NotContains(t, tc.mustRun(t, "clip", "ls"), "copied text")
}

func TestLocalEditsArePendingUntilSync(t *testing.T) {
	tc := newTestCli(t, "--server", "http://127.0.0.1:1")

	tc.mustRun(t, "tab", "new", "a", "--content", "x")
	tc.mustRun(t, "clip", "add", "y")
	tc.mustRun(t, "clip", "add", "--image")

	out := tc.mustRun(t, "status")
	assert.Contains(t, out, "Pending sync: 2 change(s)")
	assert.Contains(t, out, "Last synced: never")
}

func TestSync_Disabled(t *testing.T) {
	t.Setenv("SCRATCHPAD_SYNC_ENABLED", "false")
	tc := newTestCli(t)

	_, err := tc.run(t, "", "sync")
	assert.ErrorIs(t, err, ErrSyncDisabled)

	assert.Contains(t, tc.mustRun(t, "status"), "Sync: disabled")
}

func TestSync_AgainstServer(t *testing.T) {
	ts, jwtCfg := startServer(t)
	tc := newTestCli(t, "--server", ts.URL, "--token", token(t, jwtCfg, "account-1"))

	tc.mustRun(t, "tab", "new", "notes", "--content", "hello")
	assert.Contains(t, tc.mustRun(t, "sync"), "Synchronization completed successfully")

	out := tc.mustRun(t, "status", "--check")
	assert.Contains(t, out, "Account: account-1")
	assert.Contains(t, out, "Records known to server: 1")
	assert.Contains(t, out, "Cursor saved: true")
	assert.Contains(t, out, "No local changes waiting")
	assert.Contains(t, out, "Server: ok")
	assert.NotContains(t, out, "Last synced: never")

	// Второе устройство того же аккаунта получает вкладку
	other := newTestCli(t, "--server", ts.URL, "--token", token(t, jwtCfg, "account-1"))
	other.mustRun(t, "sync")
	assert.Contains(t, other.mustRun(t, "tab", "ls"), "notes")
}

func TestSync_AccountSwitchStartsOver(t *testing.T) {
	ts, jwtCfg := startServer(t)
	tc := newTestCli(t, "--server", ts.URL)

	tc.mustRun(t, "tab", "new", "notes", "--content", "hello")
	tc.mustRun(t, "--token", token(t, jwtCfg, "alice"), "sync")
	tc.mustRun(t, "--token", token(t, jwtCfg, "bob"), "sync")

	out := tc.mustRun(t, "status")
	assert.Contains(t, out, "Account: bob")
	assert.Contains(t, out, "Records known to server: 1")

	// Вкладка загружена и в зону bob
	other := newTestCli(t, "--server", ts.URL, "--token", token(t, jwtCfg, "bob"))
	other.mustRun(t, "sync")
	assert.Contains(t, other.mustRun(t, "tab", "ls"), "notes")
}

func TestDisable(t *testing.T) {
	ts, jwtCfg := startServer(t)
	tc := newTestCli(t, "--server", ts.URL, "--token", token(t, jwtCfg, "account-1"))

	tc.mustRun(t, "tab", "new", "notes", "--content", "hello")
	tc.mustRun(t, "sync")

	out := tc.mustRun(t, "disable", "--delete-remote")
	assert.Contains(t, out, "Remote zone")
	assert.Contains(t, out, "Sync state cleared")

	out = tc.mustRun(t, "status")
	assert.Contains(t, out, "Records known to server: 0")
	assert.Contains(t, out, "Cursor saved: false")

	// Локальные данные остаются и загружаются заново
	assert.Contains(t, tc.mustRun(t, "tab", "ls"), "notes")
	tc.mustRun(t, "sync")
	assert.Contains(t, tc.mustRun(t, "status"), "Records known to server: 1")
}
