package dto

import (
	"fmt"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// CreateTodoRequest represents the JSON body for creating a todo.
type CreateTodoRequest struct {
	Description *string `json:"description"`
}

// Validate checks that the description is present and acceptable.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateTodoRequest) Validate() error {
	fields := make(map[string]string)

	switch {
	case r.Description == nil:
		fields["description"] = domain.MsgRequired
	default:
		if msg := todo.ValidateDescription(*r.Description); msg != "" {
			fields["description"] = msg
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Source: domain.SourceBody, Fields: fields}
	}
	return nil
}

// UpdateTodoRequest represents the JSON body for a partial update.
// Absent and null fields are left unchanged; at least one must be present.
type UpdateTodoRequest struct {
	Description *string `json:"description"`
	State       *string `json:"state"`
}

// Patch converts the request into a domain patch.
func (r *UpdateTodoRequest) Patch() todo.Patch {
	var p todo.Patch
	p.Description = r.Description
	if r.State != nil {
		s := todo.State(*r.State)
		p.State = &s
	}
	return p
}

// Validate checks that at least one field is present and every present field
// is valid. Returns a *domain.ValidationError if any checks fail.
func (r *UpdateTodoRequest) Validate() error {
	p := r.Patch()
	return p.Validate()
}

// ListTodosParams holds the raw list query parameters.
type ListTodosParams struct {
	Filter  string
	OrderBy string
}

// Query validates the parameters and returns the typed list query. Values are
// matched case-insensitively and empty values take their defaults.
// Returns a *domain.ValidationError sourced from the query string on failure.
func (p ListTodosParams) Query() (todo.ListQuery, error) {
	fields := make(map[string]string)

	filter, err := todo.ParseFilter(p.Filter)
	if err != nil {
		fields["filter"] = err.Error()
	}
	orderBy, err := todo.ParseOrderBy(p.OrderBy)
	if err != nil {
		fields["orderBy"] = err.Error()
	}

	if len(fields) > 0 {
		return todo.ListQuery{}, &domain.ValidationError{Source: domain.SourceQuery, Fields: fields}
	}
	return todo.ListQuery{Filter: filter, OrderBy: orderBy}, nil
}

// PathIDError returns the validation error for a malformed todo id.
func PathIDError(raw string) error {
	return &domain.ValidationError{
		Source: domain.SourcePath,
		Fields: map[string]string{"id": fmt.Sprintf("must be a valid UUID, got %q", raw)},
	}
}
