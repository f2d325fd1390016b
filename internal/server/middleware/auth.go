package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/pkg/api"
)

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, api.ErrCodeUnauthorized, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format")
				writeError(w, http.StatusUnauthorized, api.ErrCodeUnauthorized, "invalid token format")
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				writeError(w, http.StatusUnauthorized, api.ErrCodeUnauthorized, "invalid token")
				return
			}

			logger.Debug("Account authenticated", "account_id", claims.AccountID)
			noteAccount(r.Context(), claims.AccountID)

			next.ServeHTTP(w, r.WithContext(handlers.WithAccountID(r.Context(), claims.AccountID)))
		})
	}
}
