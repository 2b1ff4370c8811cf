// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService by validating intent and handing
// it to the TodoRepository port. Each operation maps to one repository call;
// there are no retries and no multi-step workflows.
type TodoService struct {
	repo   ports.TodoRepository
	newID  func() uuid.UUID
	logger *slog.Logger
}

// Option configures a TodoService.
type Option func(*TodoService)

// WithIDGenerator overrides the generator used for new todo IDs.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *TodoService) {
		s.newID = gen
	}
}

// NewTodoService creates a TodoService backed by repo. A nil logger is
// replaced by one that discards output.
func NewTodoService(repo ports.TodoRepository, logger *slog.Logger, opts ...Option) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &TodoService{
		repo:   repo,
		newID:  uuid.New,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTodos returns todos matching query. Unset query fields take their defaults.
func (s *TodoService) ListTodos(ctx context.Context, query todo.ListQuery) ([]todo.Todo, error) {
	query = query.Normalize()
	s.logger.InfoContext(ctx, "listing todos",
		slog.String("filter", string(query.Filter)),
		slog.String("order_by", string(query.OrderBy)),
	)

	todos, err := s.repo.List(ctx, query)
	if err != nil {
		s.logFailure(ctx, "failed to list todos", "ListTodos", uuid.Nil, err)
		return nil, err
	}

	return todos, nil
}

// CreateTodo validates the description and stores a new INCOMPLETE todo
// under a freshly generated ID.
func (s *TodoService) CreateTodo(ctx context.Context, description string) (*todo.Todo, error) {
	if msg := todo.ValidateDescription(description); msg != "" {
		return nil, &domain.ValidationError{
			Source: domain.SourceBody,
			Fields: map[string]string{"description": msg},
		}
	}

	id := s.newID()
	s.logger.InfoContext(ctx, "creating todo", slog.String("todo_id", id.String()))

	created, err := s.repo.Create(ctx, id, description)
	if err != nil {
		s.logFailure(ctx, "failed to create todo", "CreateTodo", id, err)
		return nil, err
	}

	return created, nil
}

// UpdateTodo validates the patch and applies it to the todo with the given ID.
func (s *TodoService) UpdateTodo(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "updating todo", slog.String("todo_id", id.String()))

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logFailure(ctx, "failed to update todo", "UpdateTodo", id, err)
		return nil, err
	}

	return updated, nil
}

// DeleteTodo hard-deletes the todo with the given ID and returns the removed rows.
func (s *TodoService) DeleteTodo(ctx context.Context, id uuid.UUID) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "deleting todo", slog.String("todo_id", id.String()))

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to delete todo", "DeleteTodo", id, err)
		return nil, err
	}

	return deleted, nil
}

// logFailure logs a repository error. Expected domain outcomes are logged at
// warn level, everything else at error level.
func (s *TodoService) logFailure(ctx context.Context, msg, operation string, id uuid.UUID, err error) {
	attrs := []any{slog.String("operation", operation)}
	if id != uuid.Nil {
		attrs = append(attrs, slog.String("todo_id", id.String()))
	}
	attrs = append(attrs, slog.Any("error", err))

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		s.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	s.logger.ErrorContext(ctx, msg, attrs...)
}
