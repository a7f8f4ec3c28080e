package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         any
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]any{"acknowledged": true, "deletedCount": 1},
			expectedBody: `{"acknowledged":true,"deletedCount":1}`,
		},
		{
			name:         "empty array",
			status:       http.StatusOK,
			data:         []string{},
			expectedBody: `[]`,
		},
		{
			name:         "nil response",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithText(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithText(w, http.StatusOK, "ShareBite server is running!")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "ShareBite server is running!", w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/shareFood/donor", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusForbidden, "Forbidden Access")

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"message": "Forbidden Access", "trace_id": "trace-1"}, body)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/shareFood", nil)
	ctx := logger.WithLogger(WithTraceID(req.Context(), "trace-2"), log)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	err := errors.New("dial tcp: postgres://admin:hunter2@db:5432 refused")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Internal server error", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NotContains(t, w.Body.String(), "dial tcp")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
	assert.Equal(t, "trace-2", body.TraceID)

	entries, decodeErr := buf.Entries()
	require.NoError(t, decodeErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "trace-2", entries[0]["trace_id"])
	assert.NotContains(t, entries[0]["error"], "hunter2")
}

func TestRespondWithErrorAndLog_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusUnauthorized, "WARN"},
		{http.StatusForbidden, "WARN"},
		{http.StatusBadRequest, "DEBUG"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), req, tc.status, "msg", nil)

			entries, err := buf.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0]["level"])
		})
	}
}
