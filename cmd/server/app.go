package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharebite/sharebite-api/internal/config"
	"github.com/sharebite/sharebite-api/internal/platform/metrics"
	"github.com/sharebite/sharebite-api/internal/platform/telemetry"
	"github.com/sharebite/sharebite-api/internal/redact"
	"github.com/sharebite/sharebite-api/internal/service"
	"github.com/sharebite/sharebite-api/internal/service/auth"
	"github.com/sharebite/sharebite-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	foodStore   store.FoodStore
	verifier    auth.IdentityVerifier
	foodService service.FoodService

	shutdownTracing telemetry.ShutdownFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. On failure, anything already opened is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.shutdownTracing, err = telemetry.InitTracing(ctx, cfg.Telemetry, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	foods, err := openFoodStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.foodStore = telemetry.NewInstrumentedFoodStore(foods, cfg.Database.Driver, nil)
	logger.Info("food store initialized", slog.String("driver", cfg.Database.Driver))

	app.verifier, err = newIdentityVerifier(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}
	logger.Info("identity verifier initialized", slog.String("provider", cfg.Auth.Provider))

	app.foodService, err = service.NewFoodService(app.foodStore, cfg.Database.OperationTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create food service: %w", err)
	}

	metrics.Init(Version, cfg.Database.Driver, cfg.Auth.Provider)

	logger.Info("application initialized successfully")
	return app, nil
}

// newIdentityVerifier builds the verifier for the configured provider.
func newIdentityVerifier(ctx context.Context, cfg config.AuthConfig) (auth.IdentityVerifier, error) {
	switch cfg.Provider {
	case auth.ProviderFirebase:
		return auth.NewFirebaseVerifier(ctx, cfg)
	case auth.ProviderJWT:
		return auth.NewJWTVerifier(cfg)
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
	}
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if app.foodStore != nil {
		errs = append(errs, app.foodStore.Close(ctx))
	}
	if app.shutdownTracing != nil {
		errs = append(errs, app.shutdownTracing(ctx))
	}

	if err := errors.Join(errs...); err != nil {
		app.logger.Error("error during shutdown", slog.String("error", redact.Error(err)))
	}
	app.logger.Info("application shutdown completed")
}
