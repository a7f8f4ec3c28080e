package memory

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/store"
)

// FoodStore keeps food records in memory, in insertion order.
type FoodStore struct {
	mu     sync.RWMutex
	order  []domain.FoodID
	foods  map[domain.FoodID]*domain.Food
	logger *slog.Logger
}

// NewFoodStore creates an empty in-memory store.
// If logger is nil, a default logger will be used.
func NewFoodStore(logger *slog.Logger) *FoodStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FoodStore{
		foods:  make(map[domain.FoodID]*domain.Food),
		logger: logger.With(slog.String("component", "food_store"), slog.String("driver", "memory")),
	}
}

var _ store.FoodStore = (*FoodStore)(nil)

// Find implements store.FoodStore.
func (s *FoodStore) Find(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Food, 0, len(s.order))
	for _, id := range s.order {
		food := s.foods[id]
		if filter.DonorEmail != "" && food.DonorEmail != filter.DonorEmail {
			continue
		}
		if filter.RequestedBy != "" && food.RequestedBy != filter.RequestedBy {
			continue
		}
		result = append(result, clone(food))
	}
	return result, nil
}

// FindSortedByExpiry implements store.FoodStore.
func (s *FoodStore) FindSortedByExpiry(ctx context.Context) ([]*domain.Food, error) {
	foods, err := s.Find(ctx, store.FoodFilter{})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(foods, func(a, b *domain.Food) int {
		if c := a.ExpiredDate.Compare(b.ExpiredDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return foods, nil
}

// GetByID implements store.FoodStore.
func (s *FoodStore) GetByID(ctx context.Context, id domain.FoodID) (*domain.Food, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	food, ok := s.foods[key]
	if !ok {
		return nil, store.ErrFoodNotFound
	}
	return clone(food), nil
}

// Insert implements store.FoodStore.
func (s *FoodStore) Insert(ctx context.Context, food *domain.Food) (domain.FoodID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := clone(food)
	stored.ID = domain.FoodID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.foods[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	s.logger.DebugContext(ctx, "food inserted", slog.String("food_id", stored.ID.String()))
	return stored.ID, nil
}

// Update implements store.FoodStore.
func (s *FoodStore) Update(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.foods[key]
	if !ok {
		return domain.UpdateResult{Acknowledged: true}, nil
	}

	updated, err := current.Apply(patch)
	if err != nil {
		return domain.UpdateResult{}, store.NewStoreError("food", "update", "failed to apply update", err)
	}

	result := domain.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if !reflect.DeepEqual(current.Document(), updated.Document()) {
		s.foods[key] = updated
		result.ModifiedCount = 1
	}
	return result, nil
}

// Delete implements store.FoodStore.
func (s *FoodStore) Delete(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.DeleteResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.DeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.foods[key]; !ok {
		return domain.DeleteResult{Acknowledged: true}, nil
	}
	delete(s.foods, key)
	s.order = slices.DeleteFunc(s.order, func(existing domain.FoodID) bool {
		return existing == key
	})
	return domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// Ping implements store.FoodStore. The memory store is always reachable.
func (s *FoodStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.FoodStore.
func (s *FoodStore) Close(context.Context) error {
	return nil
}

// parseID accepts only canonical UUIDs, matching the identifiers Insert
// generates.
func parseID(id domain.FoodID) (domain.FoodID, error) {
	parsed, err := uuid.Parse(id.String())
	if err != nil {
		return "", store.ErrMalformedID
	}
	return domain.FoodID(parsed.String()), nil
}

func clone(food *domain.Food) *domain.Food {
	c := *food
	if food.Extra != nil {
		c.Extra = maps.Clone(food.Extra)
	}
	return &c
}
