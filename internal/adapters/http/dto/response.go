// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// TodoResponse represents a single todo in HTTP responses. CompletedAt is
// always present and serialized as null when unset.
type TodoResponse struct {
	ID          string  `json:"id"`
	State       string  `json:"state"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID.String(),
		State:       t.State.String(),
		Description: t.Description,
		CreatedAt:   formatTime(t.CreatedAt),
	}
	if t.CompletedAt != nil {
		completed := formatTime(*t.CompletedAt)
		resp.CompletedAt = &completed
	}
	return resp
}

// ToTodoListResponse converts todos to a JSON array. The result is never nil,
// so an empty list serializes as [].
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}

// HealthResponse is the body of the plain health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
