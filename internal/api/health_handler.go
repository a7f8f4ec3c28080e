package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sharebite/sharebite-api/internal/api/shared"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/redact"
)

// LivenessMessage is the body served at the root path.
const LivenessMessage = "ShareBite server is running!"

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pinger Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(pinger Pinger, logger *slog.Logger) *HealthHandler {
	if pinger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("pinger cannot be nil for HealthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		pinger: pinger,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Liveness handles GET /
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	shared.RespondWithText(w, http.StatusOK, LivenessMessage)
}

// Readiness handles GET /health. It answers 503 while the store is unreachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("readiness check failed",
			slog.String("error", redact.Error(err)))
		shared.RespondWithText(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
		return
	}
	shared.RespondWithText(w, http.StatusOK, "OK")
}
