package todo

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain"
)

func stringPtr(s string) *string { return &s }
func statePtr(s State) *State    { return &s }

// requireValidationField is a test helper that asserts err wraps domain.ErrValidation
// and the resulting ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{name: "INCOMPLETE is valid", state: StateIncomplete, want: true},
		{name: "COMPLETE is valid", state: StateComplete, want: true},
		{name: "empty string is invalid", state: "", want: false},
		{name: "unknown value is invalid", state: "DONE", want: false},
		{name: "case sensitive", state: "complete", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("State(%q).IsValid() = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Filter
		wantErr bool
	}{
		{raw: "", want: FilterAll},
		{raw: "ALL", want: FilterAll},
		{raw: "all", want: FilterAll},
		{raw: "Complete", want: FilterComplete},
		{raw: "incomplete", want: FilterIncomplete},
		{raw: "done", wantErr: true},
		{raw: " ALL", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFilter(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFilter(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilter(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFilter_State(t *testing.T) {
	t.Parallel()

	if _, ok := FilterAll.State(); ok {
		t.Error("FilterAll.State() ok = true, want false")
	}
	if s, ok := FilterComplete.State(); !ok || s != StateComplete {
		t.Errorf("FilterComplete.State() = (%q, %v), want (COMPLETE, true)", s, ok)
	}
	if s, ok := FilterIncomplete.State(); !ok || s != StateIncomplete {
		t.Errorf("FilterIncomplete.State() = (%q, %v), want (INCOMPLETE, true)", s, ok)
	}
}

func TestParseOrderBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    OrderBy
		wantErr bool
	}{
		{raw: "", want: OrderByCreatedAt},
		{raw: "description", want: OrderByDescription},
		{raw: "CREATED_AT", want: OrderByCreatedAt},
		{raw: "completed_at", want: OrderByCompletedAt},
		{raw: "createdAt", wantErr: true},
		{raw: "id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOrderBy(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOrderBy(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrderBy(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseOrderBy(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestListQuery_Normalize(t *testing.T) {
	t.Parallel()

	got := ListQuery{}.Normalize()
	if got.Filter != FilterAll || got.OrderBy != OrderByCreatedAt {
		t.Errorf("Normalize() = %+v, want ALL/CREATED_AT", got)
	}

	got = ListQuery{Filter: FilterComplete, OrderBy: OrderByDescription}.Normalize()
	if got.Filter != FilterComplete || got.OrderBy != OrderByDescription {
		t.Errorf("Normalize() changed explicit values: %+v", got)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantMsg bool
	}{
		{name: "plain text passes", value: "Buy milk"},
		{name: "single character passes", value: "x"},
		{name: "empty fails", value: "", wantMsg: true},
		{name: "whitespace-only fails", value: " \t\n", wantMsg: true},
		{name: "max length passes", value: strings.Repeat("a", MaxDescriptionLength)},
		{name: "over max length fails", value: strings.Repeat("a", MaxDescriptionLength+1), wantMsg: true},
		{name: "multibyte counted by rune", value: strings.Repeat("é", MaxDescriptionLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := ValidateDescription(tt.value)
			if (msg != "") != tt.wantMsg {
				t.Errorf("ValidateDescription() = %q, wantMsg %v", msg, tt.wantMsg)
			}
		})
	}
}

func TestPatch_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		patch     Patch
		wantErr   bool
		wantField string
	}{
		{
			name:    "description only passes",
			patch:   Patch{Description: stringPtr("Buy bread")},
			wantErr: false,
		},
		{
			name:    "state only passes",
			patch:   Patch{State: statePtr(StateComplete)},
			wantErr: false,
		},
		{
			name:    "both fields pass",
			patch:   Patch{Description: stringPtr("Buy bread"), State: statePtr(StateIncomplete)},
			wantErr: false,
		},
		{
			name:      "empty patch fails",
			patch:     Patch{},
			wantErr:   true,
			wantField: "body",
		},
		{
			name:      "empty description fails",
			patch:     Patch{Description: stringPtr("")},
			wantErr:   true,
			wantField: "description",
		},
		{
			name:      "unknown state fails",
			patch:     Patch{State: statePtr("DONE")},
			wantErr:   true,
			wantField: "state",
		},
		{
			name:      "lowercase state fails",
			patch:     Patch{State: statePtr("complete")},
			wantErr:   true,
			wantField: "state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.patch.Validate()
			if tt.wantErr {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestPatch_Validate_SourceIsBody(t *testing.T) {
	t.Parallel()

	p := Patch{}
	var verr *domain.ValidationError
	if !errors.As(p.Validate(), &verr) {
		t.Fatal("Validate() did not return a *ValidationError")
	}
	if verr.Location() != domain.SourceBody {
		t.Errorf("Location() = %q, want %q", verr.Location(), domain.SourceBody)
	}
}

func TestTodo_IsComplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  bool
	}{
		{StateComplete, true},
		{StateIncomplete, false},
		{State(""), false},
	}

	for _, tt := range tests {
		td := Todo{State: tt.state}
		if got := td.IsComplete(); got != tt.want {
			t.Errorf("Todo{State: %q}.IsComplete() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestPatch_Apply(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)

	incomplete := Todo{Description: "Buy milk", State: StateIncomplete, CreatedAt: created}
	complete := Todo{Description: "Buy milk", State: StateComplete, CreatedAt: created, CompletedAt: &earlier}

	t.Run("complete stamps completedAt", func(t *testing.T) {
		t.Parallel()
		p := Patch{State: statePtr(StateComplete)}
		got := p.Apply(incomplete, now)
		if got.State != StateComplete {
			t.Errorf("State = %q, want COMPLETE", got.State)
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
			t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, now)
		}
	})

	t.Run("repeated complete keeps original timestamp", func(t *testing.T) {
		t.Parallel()
		p := Patch{State: statePtr(StateComplete)}
		got := p.Apply(complete, now)
		if got.CompletedAt == nil || !got.CompletedAt.Equal(earlier) {
			t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, earlier)
		}
	})

	t.Run("incomplete clears completedAt", func(t *testing.T) {
		t.Parallel()
		p := Patch{State: statePtr(StateIncomplete)}
		got := p.Apply(complete, now)
		if got.State != StateIncomplete {
			t.Errorf("State = %q, want INCOMPLETE", got.State)
		}
		if got.CompletedAt != nil {
			t.Errorf("CompletedAt = %v, want nil", got.CompletedAt)
		}
	})

	t.Run("description leaves state untouched", func(t *testing.T) {
		t.Parallel()
		p := Patch{Description: stringPtr("Buy oat milk")}
		got := p.Apply(complete, now)
		if got.Description != "Buy oat milk" {
			t.Errorf("Description = %q, want %q", got.Description, "Buy oat milk")
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(earlier) {
			t.Errorf("CompletedAt = %v, want unchanged %v", got.CompletedAt, earlier)
		}
	})

	t.Run("apply does not mutate input", func(t *testing.T) {
		t.Parallel()
		p := Patch{State: statePtr(StateIncomplete)}
		_ = p.Apply(complete, now)
		if complete.CompletedAt == nil {
			t.Error("input todo was mutated")
		}
	})
}

func TestNotFoundErrors(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("7b1e4c1a-3f1d-4b8e-9a59-2f0d8d2c6a10")

	err := NotFoundError(id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("NotFoundError() = %v, want errors.Is domain.ErrNotFound", err)
	}
	if want := "todo 7b1e4c1a-3f1d-4b8e-9a59-2f0d8d2c6a10 not found"; err.Error() != want {
		t.Errorf("NotFoundError().Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(ErrNotFound, domain.ErrNotFound) {
		t.Fatal("ErrNotFound does not wrap domain.ErrNotFound")
	}
	if ErrNotFound.Error() != "todo not found" {
		t.Errorf("ErrNotFound.Error() = %q, want %q", ErrNotFound.Error(), "todo not found")
	}
}
