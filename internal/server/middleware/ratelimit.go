package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/euforicio/scratchpad/internal/server/handlers"
	"github.com/euforicio/scratchpad/pkg/api"
)

// RateLimiter ограничивает число запросов на ключ в фиксированном окне
type RateLimiter struct {
	buckets map[string]*bucket
	now     func() time.Time
	rate    int
	window  time.Duration
	mu      sync.Mutex
}

// bucket хранит остаток запросов в текущем окне
type bucket struct {
	windowStart time.Time
	tokens      int
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов за window
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		rate:    rate,
		window:  window,
	}
}

// Allow проверяет, разрешен ли запрос для ключа.
// Второе значение - через сколько откроется новое окно.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		b = &bucket{windowStart: now, tokens: rl.rate}
		rl.buckets[key] = b
		rl.evictLocked(now)
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.windowStart.Add(rl.window).Sub(now)
}

// evictLocked удаляет buckets, окно которых давно закрылось
func (rl *RateLimiter) evictLocked(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > 2*rl.window {
			delete(rl.buckets, key)
		}
	}
}

// RateLimitMiddleware ограничивает частоту запросов аккаунта, а до
// аутентификации - IP адреса. Превышение лимита возвращает 429 с Retry-After.
func RateLimitMiddleware(logger *slog.Logger, limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if accountID, ok := handlers.GetAccountID(r.Context()); ok {
				key = "account:" + accountID
			}

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				logger.Warn("Rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path)

				seconds := int(retryAfter.Round(time.Second) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				writeError(w, http.StatusTooManyRequests, api.ErrCodeRateLimited, "rate limit exceeded, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
