package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/todo-service/internal/platform/health"
	"github.com/jsamuelsen11/todo-service/mocks"
)

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	r := health.New()
	results := r.CheckAll(context.Background())

	if results == nil {
		t.Fatal("expected non-nil map, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty map, got %d entries", len(results))
	}
}

func TestCheckAll_AllHealthy(t *testing.T) {
	t.Parallel()

	checkerA := mocks.NewMockHealthChecker(t)
	checkerA.EXPECT().Name().Return("db")
	checkerA.EXPECT().HealthCheck(mock.Anything).Return(nil)

	checkerB := mocks.NewMockHealthChecker(t)
	checkerB.EXPECT().Name().Return("store_circuit")
	checkerB.EXPECT().HealthCheck(mock.Anything).Return(nil)

	r := health.New()
	r.Register(checkerA)
	r.Register(checkerB)

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if results["store_circuit"] != nil {
		t.Errorf("store_circuit check = %v, want nil", results["store_circuit"])
	}
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	healthy := mocks.NewMockHealthChecker(t)
	healthy.EXPECT().Name().Return("db")
	healthy.EXPECT().HealthCheck(mock.Anything).Return(nil)

	unhealthyErr := errors.New("connection refused")
	unhealthy := mocks.NewMockHealthChecker(t)
	unhealthy.EXPECT().Name().Return("postgres")
	unhealthy.EXPECT().HealthCheck(mock.Anything).Return(unhealthyErr)

	r := health.New()
	r.Register(healthy)
	r.Register(unhealthy)

	results := r.CheckAll(context.Background())

	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if results["postgres"] == nil {
		t.Fatal("postgres check = nil, want error")
	}
	if results["postgres"].Error() != "connection refused" {
		t.Errorf("postgres check = %q, want %q", results["postgres"].Error(), "connection refused")
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("postgres")
	checker.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() != nil
	})).Return(context.Canceled)

	r := health.New()
	r.Register(checker)

	results := r.CheckAll(ctx)

	if !errors.Is(results["postgres"], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results["postgres"])
	}
}

func TestCheckAll_DuplicateNames_LastWriteWins(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("db")
	first.EXPECT().HealthCheck(mock.Anything).Return(nil)

	secondErr := errors.New("second failure")
	second := mocks.NewMockHealthChecker(t)
	second.EXPECT().Name().Return("db")
	second.EXPECT().HealthCheck(mock.Anything).Return(secondErr)

	r := health.New()
	r.Register(first)
	r.Register(second)

	results := r.CheckAll(context.Background())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got, ok := results["db"]
	if !ok {
		t.Fatal(`expected result for key "db", but it was missing`)
	}
	if !errors.Is(got, secondErr) {
		t.Errorf("db check = %v, want %v (from last registered checker)", got, secondErr)
	}
}

func TestCheckAll_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	const goroutines = 50

	// Half the goroutines register checkers, half call CheckAll.
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				c := mocks.NewMockHealthChecker(t)
				c.EXPECT().Name().Return("checker").Maybe()
				c.EXPECT().HealthCheck(mock.Anything).Return(nil).Maybe()
				r.Register(c)
			}()
		} else {
			go func() {
				defer wg.Done()
				r.CheckAll(context.Background())
			}()
		}
	}

	wg.Wait()
}

func TestCheckAll_AppliesCheckTimeout(t *testing.T) {
	t.Parallel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("postgres")
	checker.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	r := health.New(health.WithCheckTimeout(10 * time.Millisecond))
	r.Register(checker)

	results := r.CheckAll(context.Background())

	if !errors.Is(results["postgres"], context.DeadlineExceeded) {
		t.Errorf("postgres check = %v, want context.DeadlineExceeded", results["postgres"])
	}
}

func TestCheckAll_NoTimeoutWhenDisabled(t *testing.T) {
	t.Parallel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("postgres")
	checker.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return !ok
	})).Return(nil)

	r := health.New(health.WithCheckTimeout(0))
	r.Register(checker)

	results := r.CheckAll(context.Background())

	if results["postgres"] != nil {
		t.Errorf("postgres check = %v, want nil", results["postgres"])
	}
}

func TestHealthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results map[string]error
		want    bool
	}{
		{name: "empty", results: map[string]error{}, want: true},
		{name: "all nil", results: map[string]error{"postgres": nil, "store_circuit": nil}, want: true},
		{name: "one failing", results: map[string]error{"postgres": nil, "store_circuit": errors.New("open")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := health.Healthy(tt.results); got != tt.want {
				t.Errorf("Healthy() = %v, want %v", got, tt.want)
			}
		})
	}
}
