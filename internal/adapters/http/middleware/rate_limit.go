package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-service/internal/platform/config"
)

// RateLimit returns middleware that admits requests through a single
// process-wide token bucket refilled at cfg.RequestsPerSecond with capacity
// cfg.BurstSize. Requests arriving with an empty bucket are rejected with
// 429 and a Retry-After hint; they are never queued.
//
// A non-positive RequestsPerSecond disables limiting and returns a
// pass-through middleware.
func RateLimit(cfg config.RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.WarnContext(r.Context(), "request rate limited",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", retryAfter)
				dto.WriteStatusResponse(w, r, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
