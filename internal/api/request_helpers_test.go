package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func requestWithParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/shareFood/x", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathFoodID(t *testing.T) {
	id, err := getPathFoodID(requestWithParam(FoodIDParam, "665f1c2e8b3a4d0012345678"), FoodIDParam)
	assert.NoError(t, err)
	assert.Equal(t, domain.FoodID("665f1c2e8b3a4d0012345678"), id)

	_, err = getPathFoodID(requestWithParam(FoodIDParam, "  "), FoodIDParam)
	assert.ErrorIs(t, err, store.ErrMalformedID)

	_, err = getPathFoodID(httptest.NewRequest(http.MethodGet, "/", nil), FoodIDParam)
	assert.ErrorIs(t, err, store.ErrMalformedID)
}
