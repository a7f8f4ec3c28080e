package mocks

import (
	"context"
	"sync"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/store"
)

// MockFoodStore implements store.FoodStore for testing.
// Methods without a function field set return the zero value and Err.
type MockFoodStore struct {
	FindFn               func(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error)
	FindSortedByExpiryFn func(ctx context.Context) ([]*domain.Food, error)
	GetByIDFn            func(ctx context.Context, id domain.FoodID) (*domain.Food, error)
	InsertFn             func(ctx context.Context, food *domain.Food) (domain.FoodID, error)
	UpdateFn             func(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error)
	DeleteFn             func(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error)
	PingFn               func(ctx context.Context) error
	CloseFn              func(ctx context.Context) error

	// Err is returned by methods that have no function field set.
	Err error

	mu    sync.Mutex
	calls map[string]int
}

var _ store.FoodStore = (*MockFoodStore)(nil)

func (m *MockFoodStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times the named method was invoked.
func (m *MockFoodStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (m *MockFoodStore) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Find implements store.FoodStore.
func (m *MockFoodStore) Find(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error) {
	m.record("Find")
	if m.FindFn != nil {
		return m.FindFn(ctx, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return []*domain.Food{}, nil
}

// FindSortedByExpiry implements store.FoodStore.
func (m *MockFoodStore) FindSortedByExpiry(ctx context.Context) ([]*domain.Food, error) {
	m.record("FindSortedByExpiry")
	if m.FindSortedByExpiryFn != nil {
		return m.FindSortedByExpiryFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return []*domain.Food{}, nil
}

// GetByID implements store.FoodStore.
func (m *MockFoodStore) GetByID(ctx context.Context, id domain.FoodID) (*domain.Food, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrFoodNotFound
}

// Insert implements store.FoodStore.
func (m *MockFoodStore) Insert(ctx context.Context, food *domain.Food) (domain.FoodID, error) {
	m.record("Insert")
	if m.InsertFn != nil {
		return m.InsertFn(ctx, food)
	}
	return "", m.Err
}

// Update implements store.FoodStore.
func (m *MockFoodStore) Update(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	if m.Err != nil {
		return domain.UpdateResult{}, m.Err
	}
	return domain.UpdateResult{Acknowledged: true}, nil
}

// Delete implements store.FoodStore.
func (m *MockFoodStore) Delete(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error) {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return domain.DeleteResult{}, m.Err
	}
	return domain.DeleteResult{Acknowledged: true}, nil
}

// Ping implements store.FoodStore.
func (m *MockFoodStore) Ping(ctx context.Context) error {
	m.record("Ping")
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return m.Err
}

// Close implements store.FoodStore.
func (m *MockFoodStore) Close(ctx context.Context) error {
	m.record("Close")
	if m.CloseFn != nil {
		return m.CloseFn(ctx)
	}
	return nil
}
