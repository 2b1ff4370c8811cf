// Package postgres implements the todo repository on PostgreSQL using a pgx
// connection pool. Every operation is a single parameterized statement with
// RETURNING semantics; no transactions are opened.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// PostgreSQL constraint violation codes.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var tracer = otel.Tracer("github.com/jsamuelsen11/todo-service/internal/adapters/store/postgres")

// Compile-time interface check.
var _ ports.TodoRepository = (*Store)(nil)

// DBTX is the subset of *pgxpool.Pool used by Store.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store is a PostgreSQL-backed [ports.TodoRepository].
type Store struct {
	db DBTX
}

// New creates a Store on the given pool or connection.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// List returns the todos matching q in ascending order of the selected column.
func (s *Store) List(ctx context.Context, q todo.ListQuery) ([]todo.Todo, error) {
	q = q.Normalize()
	ctx, span := tracer.Start(ctx, "TodoStore.List",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("todo.filter", string(q.Filter)),
			attribute.String("todo.order_by", string(q.OrderBy)),
		),
	)
	defer span.End()

	sql, args := buildListQuery(q)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fail(span, fmt.Errorf("listing todos: %w", mapError(err)))
	}

	todos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (todo.Todo, error) {
		return scanTodo(row)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scanning todos: %w", mapError(err)))
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	return todos, nil
}

// Create inserts an INCOMPLETE todo with the given id and description.
func (s *Store) Create(ctx context.Context, id uuid.UUID, description string) (*todo.Todo, error) {
	ctx, span := tracer.Start(ctx, "TodoStore.Create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	t, err := scanTodo(s.db.QueryRow(ctx, insertTodoSQL, id, description))
	if err != nil {
		return nil, fail(span, fmt.Errorf("inserting todo: %w", mapError(err)))
	}
	return &t, nil
}

// Update applies patch to the todo with the given id and returns the updated
// row. Returns todo.ErrNotFound when no row matches.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	ctx, span := tracer.Start(ctx, "TodoStore.Update",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	if patch.IsEmpty() {
		return nil, fail(span, &domain.ValidationError{
			Source: domain.SourceBody,
			Fields: map[string]string{"body": "must contain at least one of: description, state"},
		})
	}

	sql, args := buildUpdateQuery(id, patch)
	t, err := scanTodo(s.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetAttributes(attribute.Bool("todo.found", false))
		return nil, todo.ErrNotFound
	}
	if err != nil {
		return nil, fail(span, fmt.Errorf("updating todo %s: %w", id, mapError(err)))
	}

	span.SetAttributes(attribute.Bool("todo.found", true))
	return &t, nil
}

// Delete removes the todo with the given id and returns the deleted rows.
// Returns an error naming the id when no row matches.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) ([]todo.Todo, error) {
	ctx, span := tracer.Start(ctx, "TodoStore.Delete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("todo.id", id.String())),
	)
	defer span.End()

	rows, err := s.db.Query(ctx, deleteTodoSQL, id)
	if err != nil {
		return nil, fail(span, fmt.Errorf("deleting todo %s: %w", id, mapError(err)))
	}

	deleted, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (todo.Todo, error) {
		return scanTodo(row)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("deleting todo %s: %w", id, mapError(err)))
	}
	if len(deleted) == 0 {
		span.SetAttributes(attribute.Bool("todo.found", false))
		return nil, todo.NotFoundError(id)
	}

	span.SetAttributes(attribute.Bool("todo.found", true))
	return deleted, nil
}

// Name identifies the store in readiness checks.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

// scanTodo reads one row in todoColumns order.
func scanTodo(row pgx.Row) (todo.Todo, error) {
	var (
		t           todo.Todo
		state       string
		completedAt *time.Time
	)
	if err := row.Scan(&t.ID, &state, &t.Description, &t.CreatedAt, &completedAt); err != nil {
		return todo.Todo{}, err
	}
	t.State = todo.State(state)
	t.CompletedAt = completedAt
	return t, nil
}

// mapError names the violated constraint on unique and check violations.
// Input is validated before it reaches the store, so a violation is a
// persistence failure and stays an internal error.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgCheckViolation:
		return fmt.Errorf("constraint %s violated: %w", pgErr.ConstraintName, err)
	default:
		return err
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
