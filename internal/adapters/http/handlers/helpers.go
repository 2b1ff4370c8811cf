package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
)

// parseID extracts a UUID path parameter from the chi URL params.
func parseID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dto.PathIDError(raw)
	}
	return id, nil
}

// writeJSON writes a JSON response with the given status code. Encoding
// failures go to the request-scoped logger.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.Any("error", err),
		)
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

const unknownFieldPrefix = "json: unknown field "

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSONBody decodes the request body as a single JSON value into dst.
// The body is limited to maxJSONBodyBytes, unknown fields are rejected and
// anything but whitespace after the value is rejected. On failure, it writes
// a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, bodyDecodeError(err))
		return false
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		dto.WriteErrorResponse(w, r, bodyDecodeError(err))
		return false
	}
	return true
}

// bodyDecodeError converts a decoder failure into a body validation error
// naming the offending field where the decoder reports one.
func bodyDecodeError(err error) error {
	fields := make(map[string]string, 1)

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = "must be a " + typeErr.Type.String()
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		name := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		fields[name] = "is not allowed"
	case errors.As(err, &maxErr):
		fields["body"] = "is too large"
	case errors.Is(err, io.EOF):
		fields["body"] = domain.MsgRequired
	default:
		fields["body"] = "invalid JSON"
	}

	return &domain.ValidationError{Source: domain.SourceBody, Fields: fields}
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
