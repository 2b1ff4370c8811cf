package todo

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain"
)

// MaxDescriptionLength is the longest description accepted, in characters.
const MaxDescriptionLength = 255

// ErrNotFound is the generic not-found error returned by updates.
var ErrNotFound = fmt.Errorf("todo %w", domain.ErrNotFound)

// NotFoundError returns a not-found error naming the missing todo.
func NotFoundError(id uuid.UUID) error {
	return fmt.Errorf("todo %s %w", id, domain.ErrNotFound)
}

// Todo represents a single to-do item.
type Todo struct {
	ID          uuid.UUID
	Description string
	State       State
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// IsComplete reports whether the todo is in the COMPLETE state.
func (t *Todo) IsComplete() bool {
	return t.State == StateComplete
}

// ValidateDescription checks a description value and returns the message for
// the "description" field, or an empty string if the value is acceptable.
func ValidateDescription(description string) string {
	if strings.TrimSpace(description) == "" {
		return domain.MsgMustNotEmpty
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Sprintf("must be at most %d characters, got %d", MaxDescriptionLength, n)
	}
	return ""
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Description *string
	State       *State
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Description == nil && p.State == nil
}

// Validate checks that at least one field is present and that every present
// field holds a valid value. Returns a *domain.ValidationError on failure.
func (p *Patch) Validate() error {
	fields := make(map[string]string)

	if p.IsEmpty() {
		fields["body"] = "must contain at least one of: description, state"
	}
	if p.Description != nil {
		if msg := ValidateDescription(*p.Description); msg != "" {
			fields["description"] = msg
		}
	}
	if p.State != nil && !p.State.IsValid() {
		fields["state"] = fmt.Sprintf("must be one of COMPLETE, INCOMPLETE; got %q", *p.State)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Source: domain.SourceBody, Fields: fields}
	}
	return nil
}

// Apply returns a copy of t with the patch applied at the given instant.
// CompletedAt is stamped only on a transition into COMPLETE and cleared
// whenever the state is set to INCOMPLETE.
func (p *Patch) Apply(t Todo, now time.Time) Todo {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.State != nil {
		switch *p.State {
		case StateComplete:
			if !t.IsComplete() || t.CompletedAt == nil {
				completed := now
				t.CompletedAt = &completed
			}
		default:
			t.CompletedAt = nil
		}
		t.State = *p.State
	}
	return t
}
