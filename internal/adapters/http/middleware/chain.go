package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/todo-service/internal/platform/config"
	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
)

// Chain composes middleware into one. The first argument is outermost:
//
//	Chain(Recovery, RequestID, Logging)(handler)
//
// is equivalent to:
//
//	Recovery(RequestID(Logging(handler)))
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// StackConfig carries the settings of the request middleware stack.
type StackConfig struct {
	Logger    *slog.Logger
	Metrics   *telemetry.Metrics // nil skips metric recording
	RateLimit config.RateLimitConfig
	Timeout   time.Duration // zero disables the deadline
}

// Stack returns the service's request middleware in serving order.
//
// Recovery sits outermost so a panic anywhere still yields a 500. Request and
// correlation IDs are assigned before the rate limiter so rejected requests
// carry them. Timeout is innermost and bounds only handler work.
func Stack(cfg StackConfig) func(http.Handler) http.Handler {
	return Chain(
		Recovery(cfg.Logger),
		RequestID(),
		CorrelationID(),
		RateLimit(cfg.RateLimit, cfg.Logger),
		OpenTelemetry(cfg.Metrics),
		Logging(cfg.Logger),
		Timeout(cfg.Timeout),
	)
}
