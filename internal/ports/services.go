package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// TodoService defines the service port for todo operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type TodoService interface {
	// ListTodos returns todos matching the query, ordered ascending by the
	// selected column. A zero-value query lists all todos by creation time.
	ListTodos(ctx context.Context, query todo.ListQuery) ([]todo.Todo, error)

	// CreateTodo creates a new INCOMPLETE todo with a server-generated ID.
	// Returns domain.ErrValidation if the description is not acceptable.
	CreateTodo(ctx context.Context, description string) (*todo.Todo, error)

	// UpdateTodo applies a partial update and returns the updated todo.
	// Returns domain.ErrValidation if the patch is empty or invalid.
	// Returns domain.ErrNotFound if the todo does not exist.
	UpdateTodo(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error)

	// DeleteTodo hard-deletes a todo and returns the deleted rows.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id uuid.UUID) ([]todo.Todo, error)
}
