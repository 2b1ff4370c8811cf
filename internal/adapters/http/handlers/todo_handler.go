package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	svc ports.TodoService
}

// NewTodoHandler creates a new TodoHandler with the given service port.
func NewTodoHandler(svc ports.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ListTodos handles GET /todos.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	params := dto.ListTodosParams{
		Filter:  r.URL.Query().Get("filter"),
		OrderBy: r.URL.Query().Get("orderBy"),
	}
	query, err := params.Query()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	todos, err := h.svc.ListTodos(r.Context(), query)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToTodoListResponse(todos))
}

// CreateTodo handles POST /todos.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.CreateTodo(r.Context(), *req.Description)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToTodoResponse(created))
}

// UpdateTodo handles PATCH /todo/{id}.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateTodoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateTodo(r.Context(), id, req.Patch())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToTodoResponse(updated))
}

// DeleteTodo handles DELETE /todo/{id}. The response lists the removed rows.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	deleted, err := h.svc.DeleteTodo(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToTodoListResponse(deleted))
}
