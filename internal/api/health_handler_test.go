package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharebite/sharebite-api/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		h := NewHealthHandler(&mocks.MockFoodStore{}, nil)
		w := httptest.NewRecorder()
		h.Liveness(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, LivenessMessage, w.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(&mocks.MockFoodStore{}, nil)
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})

	t.Run("store unreachable", func(t *testing.T) {
		h := NewHealthHandler(&mocks.MockFoodStore{
			PingFn: func(context.Context) error { return errors.New("no reachable servers") },
		}, nil)
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
