// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-service/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. Unknown routes and
// unsupported methods answer with problem+json 404 and 405 responses.
func NewRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatusResponse(w, req, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatusResponse(w, req, http.StatusMethodNotAllowed)
	})

	// Health endpoints.
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Todo collection.
	r.Get("/todos", todoHandler.ListTodos)
	r.Post("/todos", todoHandler.CreateTodo)

	// Single todo.
	r.Patch("/todo/{id}", todoHandler.UpdateTodo)
	r.Delete("/todo/{id}", todoHandler.DeleteTodo)

	return r
}
