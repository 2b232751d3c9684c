package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the workflow taxonomy. Handlers map these onto HTTP
// status codes; anything else is treated as internal and redacted.
var (
	// ErrNotFound covers absent entities and entities not visible to the
	// actor where ownership gates visibility.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor is authenticated but lacks the role or
	// ownership required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means an optimistic status-transition precondition no
	// longer held when the update ran.
	ErrConflict = errors.New("conflict")
)

// FieldError is one validation finding keyed by a field path such as
// "items[2].amount_cents".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries structured, field-path-keyed findings. It is
// returned before any persistence is attempted.
type ValidationError struct {
	Fields []FieldError
}

// Add appends a finding for the given field path.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any finding was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// InternalError wraps persistence or adapter failures. Its message is logged
// but never echoed verbatim to clients.
type InternalError struct {
	cause error
}

// Internal wraps err as an internal failure.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &InternalError{cause: err}
}

// Internalf builds an internal failure from a format string.
func Internalf(format string, args ...interface{}) error {
	return &InternalError{cause: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return "internal error: " + e.cause.Error()
}

// Unwrap exposes the underlying cause.
func (e *InternalError) Unwrap() error {
	return e.cause
}
