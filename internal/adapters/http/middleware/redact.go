package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders returns the request headers as a "headers" log group ordered
// by name. Headers listed in logging.SensitiveHeaders are replaced with
// "[REDACTED]" and multi-value headers are comma-joined.
func RedactHeaders(headers http.Header) slog.Attr {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		value := redacted
		if !logging.SensitiveHeaders[strings.ToLower(name)] {
			value = strings.Join(headers[name], ",")
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return slog.Attr{Key: "headers", Value: slog.GroupValue(attrs...)}
}
