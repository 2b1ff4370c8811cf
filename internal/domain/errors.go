package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrUnavailable = errors.New("unavailable")
)

// Shared validation messages.
const (
	MsgRequired     = "is required"
	MsgMustNotEmpty = "must not be empty"
)

// Input locations for ValidationError.Source.
const (
	SourceBody  = "body"
	SourceQuery = "query"
	SourcePath  = "path"
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
//
// Source names where the rejected input came from (SourceBody, SourceQuery or
// SourcePath). An empty Source is treated as SourceBody.
type ValidationError struct {
	Source string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Location returns the input location of the error, defaulting to SourceBody.
func (e *ValidationError) Location() string {
	if e.Source == "" {
		return SourceBody
	}
	return e.Source
}
