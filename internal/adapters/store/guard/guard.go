// Package guard decorates a todo repository with a circuit breaker and
// OpenTelemetry store metrics.
//
// Every repository call runs through the breaker. Domain outcomes such as
// not-found and validation errors count as successes, so only store failures
// (constraint violations included) trip the circuit. While the circuit is
// open calls fail fast with an error wrapping [domain.ErrUnavailable].
//
// Construction:
//
//	store := guard.New(pgStore, "postgres", &cfg.Database.CircuitBreaker, metrics, logger)
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/platform/config"
	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Metric result labels.
const (
	resultSuccess     = "success"
	resultNotFound    = "not_found"
	resultRejected    = "rejected"
	resultError       = "error"
	resultCircuitOpen = "circuit_open"
)

// Compile-time interface check.
var _ ports.TodoRepository = (*Store)(nil)

// Store is a [ports.TodoRepository] that guards another repository.
type Store struct {
	next    ports.TodoRepository
	system  string
	breaker *gobreaker.CircuitBreaker[struct{}]
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New wraps next with a circuit breaker configured by cfg.
//
// The system names the backing store (e.g., "postgres") in breaker logs,
// metrics and health results. If metrics is nil, metric recording is skipped.
func New(
	next ports.TodoRepository,
	system string,
	cfg *config.CircuitBreakerConfig,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Store {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        system,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Store{
		next:    next,
		system:  system,
		breaker: cb,
		metrics: metrics,
		logger:  logger,
	}
}

// List delegates to the wrapped repository.
func (s *Store) List(ctx context.Context, q todo.ListQuery) ([]todo.Todo, error) {
	var out []todo.Todo
	err := s.run(ctx, "list", func() error {
		var err error
		out, err = s.next.List(ctx, q)
		return err
	})
	return out, err
}

// Create delegates to the wrapped repository.
func (s *Store) Create(ctx context.Context, id uuid.UUID, description string) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.run(ctx, "create", func() error {
		var err error
		out, err = s.next.Create(ctx, id, description)
		return err
	})
	return out, err
}

// Update delegates to the wrapped repository.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.run(ctx, "update", func() error {
		var err error
		out, err = s.next.Update(ctx, id, patch)
		return err
	})
	return out, err
}

// Delete delegates to the wrapped repository.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) ([]todo.Todo, error) {
	var out []todo.Todo
	err := s.run(ctx, "delete", func() error {
		var err error
		out, err = s.next.Delete(ctx, id)
		return err
	})
	return out, err
}

// Name identifies the breaker in readiness checks (e.g., "postgres_circuit").
func (s *Store) Name() string {
	return s.system + "_circuit"
}

// HealthCheck reports the circuit breaker state without touching the store.
//
// State mapping:
//   - "closed"    returns nil.
//   - "half-open" returns an error describing a degraded store.
//   - "open"      returns an error describing a failing store.
func (s *Store) HealthCheck(_ context.Context) error {
	state := s.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", s.system)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", s.system)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", s.system, state)
	}
}

// run executes fn through the breaker and records metrics. Breaker
// rejections are translated to domain.ErrUnavailable.
func (s *Store) run(ctx context.Context, op string, fn func() error) error {
	start := time.Now()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})

	s.recordMetrics(ctx, op, start, err)

	if isRejection(err) {
		s.logger.WarnContext(ctx, "store call rejected",
			slog.String("operation", op),
			slog.String("db.system", s.system),
			slog.Any("error", err),
		)
		return fmt.Errorf("%s store: %w: %w", s.system, domain.ErrUnavailable, err)
	}
	return err
}

// recordMetrics records store operation duration and count metrics.
// Safe to call with nil metrics.
func (s *Store) recordMetrics(ctx context.Context, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrDBSystem.String(s.system),
		telemetry.AttrDBOperation.String(op),
		telemetry.AttrResult.String(result(err)),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

// isSuccessful reports whether err leaves the breaker's failure count alone.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, context.Canceled)
}

func isRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func result(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case isRejection(err):
		return resultCircuitOpen
	case errors.Is(err, domain.ErrNotFound):
		return resultNotFound
	case isSuccessful(err):
		return resultRejected
	default:
		return resultError
	}
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
