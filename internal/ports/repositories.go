package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// TodoRepository defines the persistence port for todos.
// Implemented by the store adapters; called by the application layer.
// Every method maps to a single statement against the backing store.
type TodoRepository interface {
	// List returns todos matching the query. Rows with equal sort keys are
	// returned in store order.
	List(ctx context.Context, query todo.ListQuery) ([]todo.Todo, error)

	// Create inserts a todo with the given ID and description. The state is
	// forced to INCOMPLETE and CreatedAt is assigned by the store.
	Create(ctx context.Context, id uuid.UUID, description string) (*todo.Todo, error)

	// Update applies the present patch fields to the row with the given ID.
	// Returns domain.ErrNotFound if no row matched.
	Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error)

	// Delete removes the row with the given ID and returns the removed rows.
	// Returns domain.ErrNotFound if no row matched.
	Delete(ctx context.Context, id uuid.UUID) ([]todo.Todo, error)
}
