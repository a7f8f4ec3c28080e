package store

import (
	"context"

	"github.com/sharebite/sharebite-api/internal/domain"
)

// FoodFilter selects records by exact match on identity fields.
// Empty fields do not constrain the result.
type FoodFilter struct {
	DonorEmail  string
	RequestedBy string
}

// FoodStore defines the interface for food record persistence.
// Every method is a single atomic store call; implementations must be safe
// for concurrent use.
type FoodStore interface {
	// Find returns the records matching the filter in store-defined order.
	// The result is never nil.
	Find(ctx context.Context, filter FoodFilter) ([]*domain.Food, error)

	// FindSortedByExpiry returns every record ordered by expiry ascending,
	// ties broken by identifier ascending.
	FindSortedByExpiry(ctx context.Context) ([]*domain.Food, error)

	// GetByID retrieves a record by its identifier.
	// Returns ErrMalformedID if the identifier cannot be parsed and
	// ErrFoodNotFound if no record has it.
	GetByID(ctx context.Context, id domain.FoodID) (*domain.Food, error)

	// Insert stores a new record and returns the generated identifier.
	// The record's ID field is ignored.
	Insert(ctx context.Context, food *domain.Food) (domain.FoodID, error)

	// Update merges the patch into the record with the given identifier.
	// A missing record is reported through MatchedCount, not an error.
	Update(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error)

	// Delete removes the record with the given identifier. Deleting a missing
	// record reports DeletedCount 0 and no error.
	Delete(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection or pool.
	Close(ctx context.Context) error
}
