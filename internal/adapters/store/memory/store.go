// Package memory implements the todo repository in process memory. It backs
// the "memory" database driver for local runs and the end-to-end tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

var tracer = otel.Tracer("github.com/jsamuelsen11/todo-service/internal/adapters/store/memory")

// Compile-time interface check.
var _ ports.TodoRepository = (*Store)(nil)

// Store keeps todos in insertion order behind a RWMutex.
type Store struct {
	mu    sync.RWMutex
	todos []todo.Todo
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt and completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns copies of the matching todos sorted ascending by the selected
// column. Ties keep insertion order and todos without completedAt sort last.
func (s *Store) List(ctx context.Context, q todo.ListQuery) ([]todo.Todo, error) {
	q = q.Normalize()
	_, span := tracer.Start(ctx, "TodoStore.List",
		trace.WithAttributes(
			attribute.String("todo.filter", string(q.Filter)),
			attribute.String("todo.order_by", string(q.OrderBy)),
		),
	)
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, filtered := q.Filter.State()
	out := make([]todo.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if filtered && t.State != state {
			continue
		}
		out = append(out, clone(t))
	}

	slices.SortStableFunc(out, compareBy(q.OrderBy))

	span.SetAttributes(attribute.Int("todo.count", len(out)))
	return out, nil
}

// Create stores an INCOMPLETE todo with the given id and description.
func (s *Store) Create(ctx context.Context, id uuid.UUID, description string) (*todo.Todo, error) {
	_, span := tracer.Start(ctx, "TodoStore.Create",
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return nil, fmt.Errorf("todo %s already exists", id)
	}

	t := todo.Todo{
		ID:          id,
		Description: description,
		State:       todo.StateIncomplete,
		CreatedAt:   s.now().UTC(),
	}
	s.todos = append(s.todos, t)

	out := clone(t)
	return &out, nil
}

// Update applies patch to the todo with the given id.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	_, span := tracer.Start(ctx, "TodoStore.Update",
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		span.SetAttributes(attribute.Bool("todo.found", false))
		return nil, todo.ErrNotFound
	}

	s.todos[i] = patch.Apply(s.todos[i], s.now().UTC())

	span.SetAttributes(attribute.Bool("todo.found", true))
	out := clone(s.todos[i])
	return &out, nil
}

// Delete removes the todo with the given id and returns it.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) ([]todo.Todo, error) {
	_, span := tracer.Start(ctx, "TodoStore.Delete",
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		span.SetAttributes(attribute.Bool("todo.found", false))
		return nil, todo.NotFoundError(id)
	}

	deleted := s.todos[i]
	s.todos = slices.Delete(s.todos, i, i+1)

	span.SetAttributes(attribute.Bool("todo.found", true))
	return []todo.Todo{deleted}, nil
}

// Name identifies the store in readiness checks.
func (s *Store) Name() string {
	return "memory"
}

// HealthCheck always succeeds.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

// indexOf returns the position of id, or -1. Callers hold the lock.
func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.todos, func(t todo.Todo) bool { return t.ID == id })
}

func compareBy(o todo.OrderBy) func(a, b todo.Todo) int {
	switch o {
	case todo.OrderByDescription:
		return func(a, b todo.Todo) int { return cmp.Compare(a.Description, b.Description) }
	case todo.OrderByCompletedAt:
		return func(a, b todo.Todo) int {
			switch {
			case a.CompletedAt == nil && b.CompletedAt == nil:
				return 0
			case a.CompletedAt == nil:
				return 1
			case b.CompletedAt == nil:
				return -1
			default:
				return a.CompletedAt.Compare(*b.CompletedAt)
			}
		}
	default:
		return func(a, b todo.Todo) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// clone copies t so callers never share the stored completedAt pointer.
func clone(t todo.Todo) todo.Todo {
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}
