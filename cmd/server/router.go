package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sharebite/sharebite-api/internal/api"
	apiMiddleware "github.com/sharebite/sharebite-api/internal/api/middleware"
	"github.com/sharebite/sharebite-api/internal/platform/metrics"
	"github.com/sharebite/sharebite-api/internal/platform/telemetry"
)

// setupRouter creates the router with all routes and middleware.
// Gates are composed per route, authentication before ownership.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.CORSAllowedOrigins, app.logger))
	r.Use(metrics.HTTPMiddleware)
	r.Use(telemetry.HTTPMiddleware(nil))
	r.Use(middleware.Recoverer)

	foodHandler := api.NewFoodHandler(app.foodService, app.logger)
	healthHandler := api.NewHealthHandler(app.foodService, app.logger)
	authn := apiMiddleware.NewAuthMiddleware(app.verifier, app.config.Auth.VerifyTimeout)

	r.Get("/", healthHandler.Liveness)
	r.Get("/health", healthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/shareFood", func(r chi.Router) {
		r.With(authn.Authenticate, apiMiddleware.RequireOwnership(api.DonorEmailParam)).
			Get("/donor", foodHandler.ListByDonor)
		r.With(authn.Authenticate, apiMiddleware.RequireOwnership(api.RequestedByParam)).
			Get("/requested", foodHandler.ListByRequester)

		r.Get("/", foodHandler.ListAll)
		r.With(authn.Authenticate).Post("/", foodHandler.CreateFood)

		r.Get("/{id}", foodHandler.GetFood)
		r.With(authn.Authenticate).Patch("/{id}", foodHandler.UpdateFood)
		r.With(authn.Authenticate).Put("/{id}", foodHandler.ReplaceFood)
		r.With(authn.Authenticate).Delete("/{id}", foodHandler.DeleteFood)
	})

	r.Get("/sortedAvailableFoods", foodHandler.ListSortedByExpiry)

	return r
}
