// Package health provides a thread-safe health check registry for the todo
// store and its circuit breaker. The registry backs the readiness endpoint,
// which reports whether the service can serve todo requests.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// DefaultCheckTimeout bounds a single health check when no option overrides it.
const DefaultCheckTimeout = 2 * time.Second

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked on each readiness probe.
type Registry struct {
	mu           sync.RWMutex
	checkers     []ports.HealthChecker
	checkTimeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout sets the deadline applied to each individual check.
// Non-positive values disable the per-check deadline.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.checkTimeout = d
	}
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{checkTimeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll executes all registered health checks in registration order and
// returns results keyed by checker name. Nil values indicate healthy
// components. The slice is copied under a read lock so checks run without
// holding the lock.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	results := make(map[string]error, len(checkers))
	for _, c := range checkers {
		results[c.Name()] = r.check(ctx, c)
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.checkTimeout <= 0 {
		return c.HealthCheck(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()
	return c.HealthCheck(ctx)
}

// Healthy reports whether every result in a CheckAll map is nil.
func Healthy(results map[string]error) bool {
	for _, err := range results {
		if err != nil {
			return false
		}
	}
	return true
}
