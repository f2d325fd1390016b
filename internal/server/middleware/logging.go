package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// requestInfo собирает данные запроса, известные только внутренним обработчикам
type requestInfo struct {
	accountID string
}

type requestInfoKey struct{}

// noteAccount сохраняет аккаунт для журнала запроса, если LoggingMiddleware активен
func noteAccount(ctx context.Context, accountID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.accountID = accountID
	}
}

// LoggingMiddleware создает middleware для логирования HTTP запросов.
// Пути из skipPaths не логируются (health checks).
// Токены и содержимое записей в лог не попадают.
func LoggingMiddleware(logger *slog.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			info := &requestInfo{}

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

			level := slog.LevelInfo
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"account_id", info.accountID,
				"remote_addr", r.RemoteAddr,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", wrapped.written,
			)
		})
	}
}
