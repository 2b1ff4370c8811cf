// Package middleware provides the HTTP middleware of the todo service.
//
// Stack assembles them in serving order:
//
//	Recovery → RequestID → CorrelationID → RateLimit → OpenTelemetry → Logging → Timeout → router
//
// Each middleware is a func(http.Handler) http.Handler.
package middleware

import "net/http"

// responseWriter records the status code and body size of a response for the
// recovery, otel and logging middleware.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader keeps the first status code and drops later calls.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write counts the bytes written. A Write before WriteHeader commits 200.
func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
