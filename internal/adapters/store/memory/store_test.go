package memory_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 2, 3, 17, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func statePtr(s todo.State) *todo.State { return &s }
func stringPtr(s string) *string        { return &s }

func mustCreate(t *testing.T, s *memory.Store, desc string) *todo.Todo {
	t.Helper()

	created, err := s.Create(context.Background(), uuid.New(), desc)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", desc, err)
	}
	return created
}

func descriptions(todos []todo.Todo) string {
	parts := make([]string, len(todos))
	for i, t := range todos {
		parts[i] = t.Description
	}
	return strings.Join(parts, ",")
}

func TestCreate_DefaultsToIncomplete(t *testing.T) {
	t.Parallel()

	s := memory.New(memory.WithClock(stepClock()))
	created := mustCreate(t, s, "Buy milk")

	if created.State != todo.StateIncomplete {
		t.Errorf("State = %q, want INCOMPLETE", created.State)
	}
	if created.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", created.CompletedAt)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestCreate_DuplicateIDIsStoreFailure(t *testing.T) {
	t.Parallel()

	s := memory.New()
	id := uuid.New()
	if _, err := s.Create(context.Background(), id, "a"); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	_, err := s.Create(context.Background(), id, "b")
	if err == nil {
		t.Fatal("Create() with duplicate id error = nil, want failure")
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Create() error = %v, want no domain sentinel", err)
	}

	got, err := s.List(context.Background(), todo.ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Description != "a" {
		t.Errorf("List() = %+v, want only the first todo", got)
	}
}

func TestList_FilterAndOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New(memory.WithClock(stepClock()))

	pear := mustCreate(t, s, "pear")
	apple := mustCreate(t, s, "apple")
	mustCreate(t, s, "mango")

	if _, err := s.Update(ctx, apple.ID, todo.Patch{State: statePtr(todo.StateComplete)}); err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if _, err := s.Update(ctx, pear.ID, todo.Patch{State: statePtr(todo.StateComplete)}); err != nil {
		t.Fatalf("Update error = %v", err)
	}

	tests := []struct {
		name  string
		query todo.ListQuery
		want  string
	}{
		{name: "default is all by createdAt", query: todo.ListQuery{}, want: "pear,apple,mango"},
		{name: "by description", query: todo.ListQuery{OrderBy: todo.OrderByDescription}, want: "apple,mango,pear"},
		{name: "by completedAt nulls last", query: todo.ListQuery{OrderBy: todo.OrderByCompletedAt}, want: "apple,pear,mango"},
		{name: "complete only", query: todo.ListQuery{Filter: todo.FilterComplete}, want: "pear,apple"},
		{name: "incomplete only", query: todo.ListQuery{Filter: todo.FilterIncomplete}, want: "mango"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if d := descriptions(got); d != tt.want {
				t.Errorf("List() = %s, want %s", d, tt.want)
			}
		})
	}
}

func TestList_EmptyIsNonNil(t *testing.T) {
	t.Parallel()

	got, err := memory.New().List(context.Background(), todo.ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil {
		t.Error("List() = nil, want empty slice")
	}
}

func TestUpdate_CompletionLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New(memory.WithClock(stepClock()))
	created := mustCreate(t, s, "Buy milk")

	completed, err := s.Update(ctx, created.ID, todo.Patch{State: statePtr(todo.StateComplete)})
	if err != nil {
		t.Fatalf("Update(COMPLETE) error = %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatal("CompletedAt = nil after COMPLETE")
	}
	first := *completed.CompletedAt

	again, err := s.Update(ctx, created.ID, todo.Patch{State: statePtr(todo.StateComplete)})
	if err != nil {
		t.Fatalf("Update(COMPLETE again) error = %v", err)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt = %v, want preserved %v", again.CompletedAt, first)
	}

	reopened, err := s.Update(ctx, created.ID, todo.Patch{State: statePtr(todo.StateIncomplete)})
	if err != nil {
		t.Fatalf("Update(INCOMPLETE) error = %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil after INCOMPLETE", reopened.CompletedAt)
	}
}

func TestUpdate_DescriptionOnlyKeepsState(t *testing.T) {
	t.Parallel()

	s := memory.New()
	created := mustCreate(t, s, "Buy milk")

	updated, err := s.Update(context.Background(), created.ID, todo.Patch{Description: stringPtr("Buy oat milk")})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if updated.Description != "Buy oat milk" || updated.State != todo.StateIncomplete {
		t.Errorf("Update() = %+v, want new description and unchanged state", updated)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	_, err := memory.New().Update(context.Background(), uuid.New(), todo.Patch{Description: stringPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestUpdate_ReturnedCopyIsDetached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	created := mustCreate(t, s, "Buy milk")

	updated, err := s.Update(ctx, created.ID, todo.Patch{State: statePtr(todo.StateComplete)})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	*updated.CompletedAt = time.Time{}

	list, err := s.List(ctx, todo.ListQuery{})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if list[0].CompletedAt.IsZero() {
		t.Error("mutating a returned todo changed the stored value")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	created := mustCreate(t, s, "Buy milk")

	deleted, err := s.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != created.ID {
		t.Errorf("Delete() = %+v, want the created todo", deleted)
	}

	_, err = s.Delete(ctx, created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), created.ID.String()) {
		t.Errorf("second Delete() error = %q, want it to name the id", err.Error())
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.Create(ctx, uuid.New(), "task")
			if err != nil {
				t.Errorf("Create error = %v", err)
				return
			}
			_, _ = s.List(ctx, todo.ListQuery{})
			_, _ = s.Update(ctx, created.ID, todo.Patch{State: statePtr(todo.StateComplete)})
		}()
	}
	wg.Wait()

	got, err := s.List(ctx, todo.ListQuery{Filter: todo.FilterComplete})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(got) != 50 {
		t.Errorf("len(List) = %d, want 50", len(got))
	}
}
