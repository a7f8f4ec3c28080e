package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/store"
)

// FoodIDParam is the chi path parameter holding a food identifier.
const FoodIDParam = "id"

// getPathFoodID extracts a food identifier from the URL path parameters.
// The active store validates its format; only an empty value is rejected here.
func getPathFoodID(r *http.Request, paramName string) (domain.FoodID, error) {
	pathParam := strings.TrimSpace(chi.URLParam(r, paramName))
	if pathParam == "" {
		return "", store.ErrMalformedID
	}
	return domain.FoodID(pathParam), nil
}
