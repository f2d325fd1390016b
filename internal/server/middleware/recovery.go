package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/euforicio/scratchpad/pkg/api"
)

// RecoveryMiddleware создает middleware для восстановления после паники.
// Перехватывает panic, логирует стек вызовов и возвращает 500 в формате ErrorResponse
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					// Детали паники клиенту не раскрываем
					writeError(w, http.StatusInternalServerError, api.ErrCodeInternal, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
