// Package main is the entry point for the todo service. It wires all
// dependencies using samber/do v2, opens the configured todo store, starts
// the HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/todo-service/internal/adapters/http"
	"github.com/jsamuelsen11/todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/todo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/guard"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/postgres"

	"github.com/jsamuelsen11/todo-service/internal/app"
	"github.com/jsamuelsen11/todo-service/internal/platform/config"
	"github.com/jsamuelsen11/todo-service/internal/platform/health"
	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-service/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

// backend is a todo store that can also report its own health.
type backend interface {
	ports.TodoRepository
	ports.HealthChecker
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerStore(ctx, injector, cfg, logger)
	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph, opening the store).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	if cfg.Database.Driver == config.DriverPostgres {
		pool := do.MustInvoke[*pgxpool.Pool](injector)
		defer pool.Close()
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[backend](injector))
	registry.Register(do.MustInvoke[*guard.Store](injector))

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// registerStore provides the configured todo store. The postgres driver opens
// a connection pool and, when enabled, applies pending migrations before the
// store is handed out.
func registerStore(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*pgxpool.Pool, error) {
		pool, err := postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return pool, nil
	})

	do.Provide(injector, func(i do.Injector) (backend, error) {
		switch cfg.Database.Driver {
		case config.DriverPostgres:
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}
			return postgres.New(pool), nil
		case config.DriverMemory:
			logger.Warn("using in-memory todo store; data is lost on restart")
			return memory.New(), nil
		default:
			return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
		}
	})

	do.Provide(injector, func(i do.Injector) (*guard.Store, error) {
		store := do.MustInvoke[backend](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return guard.New(store, store.Name(), &cfg.Database.CircuitBreaker, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoRepository, error) {
		return do.MustInvoke[*guard.Store](i), nil
	})
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		repo := do.MustInvoke[ports.TodoRepository](i)
		return app.NewTodoService(repo, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		todoH := do.MustInvoke[*handlers.TodoHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		stack := middleware.Stack(middleware.StackConfig{
			Logger:    logger,
			Metrics:   metrics,
			RateLimit: cfg.Server.RateLimit,
			Timeout:   cfg.Server.WriteTimeout,
		})
		return adapthttp.NewRouter(todoH, healthH, stack), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
