package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "ErrFoodNotFound",
			err:      ErrFoodNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrFoodNotFound",
			err:      fmt.Errorf("failed to get food: %w", ErrFoodNotFound),
			expected: true,
		},
		{
			name:     "ErrMalformedID",
			err:      ErrMalformedID,
			expected: false,
		},
		{
			name:     "store error wrapping ErrFoodNotFound",
			err:      NewStoreError("food", "get", "lookup failed", ErrFoodNotFound),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	storeErr := NewStoreError("food", "insert", "database error", originalErr)

	expectedErrorString := "insert operation on food failed: database error: database connection failed"
	if got := storeErr.Error(); got != expectedErrorString {
		t.Errorf("StoreError.Error() = %v, want %v", got, expectedErrorString)
	}

	if got := storeErr.Unwrap(); !errors.Is(got, originalErr) {
		t.Errorf("StoreError.Unwrap() not returning original error")
	}

	if !errors.Is(storeErr, originalErr) {
		t.Errorf("errors.Is() not recognizing the wrapped error")
	}

	bare := NewStoreError("food", "delete", "no connection", nil)
	if got := bare.Error(); got != "delete operation on food failed: no connection" {
		t.Errorf("StoreError.Error() without cause = %v", got)
	}
}
