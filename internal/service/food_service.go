package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/redact"
	"github.com/sharebite/sharebite-api/internal/store"
)

// DefaultOperationTimeout bounds store calls when no timeout is configured.
const DefaultOperationTimeout = 5 * time.Second

// FoodService provides food listing operations.
type FoodService interface {
	// ListFoods returns every record in store order.
	ListFoods(ctx context.Context) ([]*domain.Food, error)

	// ListByDonor returns the records whose donor e-mail equals email.
	ListByDonor(ctx context.Context, email string) ([]*domain.Food, error)

	// ListByRequester returns the records whose requester equals email.
	ListByRequester(ctx context.Context, email string) ([]*domain.Food, error)

	// ListSortedByExpiry returns every record ordered by expiry, then identifier.
	ListSortedByExpiry(ctx context.Context) ([]*domain.Food, error)

	// GetFood returns a single record. Returns store.ErrFoodNotFound when absent.
	GetFood(ctx context.Context, id domain.FoodID) (*domain.Food, error)

	// CreateFood stores a new record.
	CreateFood(ctx context.Context, food *domain.Food) (domain.InsertResult, error)

	// UpdateFood merges the patch into an existing record.
	UpdateFood(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error)

	// ReplaceFood is the PUT counterpart of UpdateFood. It merges rather than
	// replaces, matching the behavior existing clients depend on.
	ReplaceFood(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error)

	// DeleteFood removes a record. Deleting a missing record is not an error.
	DeleteFood(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// foodServiceImpl implements the FoodService interface
type foodServiceImpl struct {
	store   store.FoodStore
	timeout time.Duration
	logger  *slog.Logger
}

// Ensure foodServiceImpl implements FoodService interface
var _ FoodService = (*foodServiceImpl)(nil)

// NewFoodService creates a new FoodService.
// A non-positive timeout falls back to DefaultOperationTimeout.
func NewFoodService(foodStore store.FoodStore, timeout time.Duration, logger *slog.Logger) (FoodService, error) {
	if foodStore == nil {
		return nil, fmt.Errorf("%w: foodStore", ErrMissingDependency)
	}

	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &foodServiceImpl{
		store:   foodStore,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "food_service")),
	}, nil
}

// ListFoods implements FoodService.ListFoods
func (s *foodServiceImpl) ListFoods(ctx context.Context) ([]*domain.Food, error) {
	return s.find(ctx, "list", store.FoodFilter{})
}

// ListByDonor implements FoodService.ListByDonor
func (s *foodServiceImpl) ListByDonor(ctx context.Context, email string) ([]*domain.Food, error) {
	return s.find(ctx, "list_by_donor", store.FoodFilter{DonorEmail: email})
}

// ListByRequester implements FoodService.ListByRequester
func (s *foodServiceImpl) ListByRequester(ctx context.Context, email string) ([]*domain.Food, error) {
	return s.find(ctx, "list_by_requester", store.FoodFilter{RequestedBy: email})
}

// ListSortedByExpiry implements FoodService.ListSortedByExpiry
func (s *foodServiceImpl) ListSortedByExpiry(ctx context.Context) ([]*domain.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	foods, err := s.store.FindSortedByExpiry(ctx)
	if err != nil {
		return nil, s.wrap(ctx, "list_sorted", "failed to list foods by expiry", err)
	}
	return foods, nil
}

// GetFood implements FoodService.GetFood
func (s *foodServiceImpl) GetFood(ctx context.Context, id domain.FoodID) (*domain.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	food, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "get", "failed to get food", err, slog.String("food_id", id.String()))
	}
	return food, nil
}

// CreateFood implements FoodService.CreateFood
func (s *foodServiceImpl) CreateFood(ctx context.Context, food *domain.Food) (domain.InsertResult, error) {
	if food == nil {
		return domain.InsertResult{}, NewFoodServiceError("create", "food is nil", domain.ErrInvalidRecord)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.store.Insert(ctx, food)
	if err != nil {
		return domain.InsertResult{}, s.wrap(ctx, "create", "failed to create food", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("food created",
		slog.String("food_id", id.String()))
	return domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateFood implements FoodService.UpdateFood
func (s *foodServiceImpl) UpdateFood(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	return s.update(ctx, "update", id, patch)
}

// ReplaceFood implements FoodService.ReplaceFood
func (s *foodServiceImpl) ReplaceFood(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	return s.update(ctx, "replace", id, patch)
}

// DeleteFood implements FoodService.DeleteFood
func (s *foodServiceImpl) DeleteFood(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.store.Delete(ctx, id)
	if err != nil {
		return domain.DeleteResult{}, s.wrap(ctx, "delete", "failed to delete food", err,
			slog.String("food_id", id.String()))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("food delete processed",
		slog.String("food_id", id.String()),
		slog.Int64("deleted_count", result.DeletedCount))
	return result, nil
}

// Ping implements FoodService.Ping
func (s *foodServiceImpl) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return NewFoodServiceError("ping", "store unreachable", err)
	}
	return nil
}

func (s *foodServiceImpl) find(ctx context.Context, operation string, filter store.FoodFilter) ([]*domain.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	foods, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, s.wrap(ctx, operation, "failed to list foods", err)
	}
	return foods, nil
}

func (s *foodServiceImpl) update(
	ctx context.Context,
	operation string,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	if patch.Len() == 0 {
		return domain.UpdateResult{}, domain.ErrEmptyUpdate
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return domain.UpdateResult{}, s.wrap(ctx, operation, "failed to update food", err,
			slog.String("food_id", id.String()))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("food update processed",
		slog.String("operation", operation),
		slog.String("food_id", id.String()),
		slog.Int64("matched_count", result.MatchedCount),
		slog.Int64("modified_count", result.ModifiedCount))
	return result, nil
}

// wrap passes expected store conditions through and wraps anything else in
// a FoodServiceError after logging it.
func (s *foodServiceImpl) wrap(ctx context.Context, operation, message string, err error, attrs ...any) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrMalformedID) {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Error(message, append([]any{
		slog.String("operation", operation),
		slog.String("error", redact.Error(err)),
	}, attrs...)...)
	return NewFoodServiceError(operation, message, err)
}
