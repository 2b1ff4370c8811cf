// Package logging builds the service's slog logger and carries request-scoped
// loggers through context.
//
//	logger := logging.New("info", "json", os.Stderr)
//
// The request logging middleware stores a logger bound to the request and
// correlation IDs with WithLogger; handlers and the error writer read it back
// with FromContext. Error logs name the operation and the todo ID and attach
// the error chain:
//
//	logger.ErrorContext(ctx, "failed to update todo",
//	    slog.String("operation", "UpdateTodo"),
//	    slog.String("todo_id", id.String()),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// New returns a logger writing to w at the given level ("debug", "info",
// "warn" or "error", case-insensitive; anything else means info). Format
// "text" selects the text handler and every other value selects JSON. Debug
// logging adds source locations. Sensitive attributes are masked.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
