// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidRecord is returned when a food record body cannot be coerced
	// into the record shape. It is usually wrapped in a FieldError.
	ErrInvalidRecord = errors.New("invalid food record")

	// ErrEmptyUpdate is returned when an update body carries no fields.
	ErrEmptyUpdate = fmt.Errorf("%w: update must contain at least one field", ErrInvalidRecord)

	// ErrForbidden is returned when the verified caller does not match the
	// identity an operation is scoped to.
	ErrForbidden = errors.New("forbidden")
)

// FieldError describes why a single field of a record was rejected.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for FieldError.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError creates a FieldError wrapping ErrInvalidRecord.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{
		Field:   field,
		Message: message,
		Err:     ErrInvalidRecord,
	}
}
