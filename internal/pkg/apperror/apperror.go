// Package apperror defines the error kinds shared by every module and the
// HTTP status each one maps to.
package apperror

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidState  = errors.New("invalid state")
)

// Error is a module-level error with a human message that unwraps to one kind.
type Error struct {
	kind    error
	message string
}

func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// ValidationError lists every violated field, not just the first one.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (v *ValidationError) Add(field, message string) {
	if _, exists := v.Fields[field]; !exists {
		v.Fields[field] = message
	}
}

// Err returns nil when nothing was recorded.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Unwrap() error { return ErrValidation }

// Status maps an error to its HTTP status and stable code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest, "ALREADY_EXISTS"
	case errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
