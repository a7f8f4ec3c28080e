package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sharebite/sharebite-api/internal/api/shared"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/service"
	"github.com/sharebite/sharebite-api/internal/store"
)

// Query parameters naming the identity a listing is scoped to.
const (
	DonorEmailParam  = "donorEmail"
	RequestedByParam = "requestedBy"
)

// FoodHandler handles food listing HTTP requests
type FoodHandler struct {
	foodService service.FoodService
	logger      *slog.Logger
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foodService service.FoodService, logger *slog.Logger) *FoodHandler {
	if foodService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("foodService cannot be nil for FoodHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FoodHandler{
		foodService: foodService,
		logger:      logger.With(slog.String("component", "food_handler")),
	}
}

// ListByDonor handles GET /shareFood/donor?donorEmail=...
// The ownership gate has already matched the parameter to the caller.
func (h *FoodHandler) ListByDonor(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodService.ListByDonor(r.Context(), r.URL.Query().Get(DonorEmailParam))
	h.respondList(w, r, "list_by_donor", foods, err)
}

// ListByRequester handles GET /shareFood/requested?requestedBy=...
func (h *FoodHandler) ListByRequester(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodService.ListByRequester(r.Context(), r.URL.Query().Get(RequestedByParam))
	h.respondList(w, r, "list_by_requester", foods, err)
}

// ListAll handles GET /shareFood
func (h *FoodHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodService.ListFoods(r.Context())
	h.respondList(w, r, "list", foods, err)
}

// ListSortedByExpiry handles GET /sortedAvailableFoods
func (h *FoodHandler) ListSortedByExpiry(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodService.ListSortedByExpiry(r.Context())
	h.respondList(w, r, "list_sorted", foods, err)
}

// GetFood handles GET /shareFood/{id}
// A missing record is answered with a JSON null and 200, which existing
// clients rely on.
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	id, err := getPathFoodID(r, FoodIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	food, err := h.foodService.GetFood(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("food not found",
			slog.String("food_id", id.String()))
		shared.RespondWithJSON(w, r, http.StatusOK, nil)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, food)
}

// CreateFood handles POST /shareFood
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	body, err := shared.DecodeJSONObject(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	food, err := domain.DecodeFood(body)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.foodService.CreateFood(r.Context(), food)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// UpdateFood handles PATCH /shareFood/{id}
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	h.handleUpdate(w, r, h.foodService.UpdateFood)
}

// ReplaceFood handles PUT /shareFood/{id}. It merges like PATCH.
func (h *FoodHandler) ReplaceFood(w http.ResponseWriter, r *http.Request) {
	h.handleUpdate(w, r, h.foodService.ReplaceFood)
}

// DeleteFood handles DELETE /shareFood/{id}
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id, err := getPathFoodID(r, FoodIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.foodService.DeleteFood(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

type updateFunc func(ctx context.Context, id domain.FoodID, patch domain.FoodPatch) (domain.UpdateResult, error)

func (h *FoodHandler) handleUpdate(
	w http.ResponseWriter,
	r *http.Request,
	update updateFunc,
) {
	id, err := getPathFoodID(r, FoodIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	body, err := shared.DecodeJSONObject(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	patch, err := domain.DecodeFoodPatch(body)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

func (h *FoodHandler) respondList(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	foods []*domain.Food,
	err error,
) {
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if foods == nil {
		foods = []*domain.Food{}
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed foods",
		slog.String("operation", operation),
		slog.Int("count", len(foods)))
	shared.RespondWithJSON(w, r, http.StatusOK, foods)
}
