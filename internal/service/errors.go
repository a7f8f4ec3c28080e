package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Store sentinel errors (not found, malformed identifier) pass through unchanged
// 2. Unexpected errors are wrapped in FoodServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrMissingDependency is returned by constructors given a nil dependency.
	ErrMissingDependency = errors.New("required dependency is nil")
)

// FoodServiceError is a custom error type for food service errors.
type FoodServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for FoodServiceError.
func (e *FoodServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("food service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("food service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FoodServiceError) Unwrap() error {
	return e.Err
}

// NewFoodServiceError creates a new FoodServiceError.
func NewFoodServiceError(operation, message string, err error) *FoodServiceError {
	return &FoodServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
