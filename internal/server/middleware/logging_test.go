package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
		status    int
		logged    bool
	}{
		{name: "success", path: "/api/v1/zones/z", status: http.StatusNoContent, wantLevel: "INFO", logged: true},
		{name: "client error", path: "/api/v1/zones/z", status: http.StatusConflict, wantLevel: "WARN", logged: true},
		{name: "server error", path: "/api/v1/zones/z", status: http.StatusInternalServerError, wantLevel: "ERROR", logged: true},
		{name: "skipped path", path: "/api/v1/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := LoggingMiddleware(logger, "/api/v1/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				noteAccount(r.Context(), "account-9")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodPut, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if !tt.logged {
				assert.Empty(t, buf.String())
				return
			}

			out := buf.String()
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "account_id=account-9")
			assert.Contains(t, out, "bytes_written=4")
			assert.NotContains(t, out, "Authorization")
		})
	}
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	n, err := rw.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.Equal(t, int64(5), rw.written)
}
