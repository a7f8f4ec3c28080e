package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sharebite/sharebite-api/internal/config"
	"github.com/sharebite/sharebite-api/internal/platform/memory"
	"github.com/sharebite/sharebite-api/internal/platform/metrics"
	"github.com/sharebite/sharebite-api/internal/platform/mongo"
	"github.com/sharebite/sharebite-api/internal/platform/postgres"
	"github.com/sharebite/sharebite-api/internal/store"
)

// Store drivers accepted by database.driver.
const (
	driverPostgres = "postgres"
	driverMongo    = "mongo"
	driverMemory   = "memory"
)

// openFoodStore connects to the configured backend. The returned store owns
// its connection; Close releases it.
func openFoodStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.FoodStore, error) {
	switch cfg.Driver {
	case driverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, poolConfig(cfg))
		if err != nil {
			return nil, err
		}

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		if err := metrics.RegisterDBStats(db, "foods"); err != nil {
			logger.Warn("database pool metrics unavailable", slog.String("error", err.Error()))
		}
		return postgres.NewPostgresFoodStore(db, logger), nil

	case driverMongo:
		client, err := mongo.Connect(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return mongo.NewMongoFoodStore(client, cfg.Name, cfg.Collection, logger), nil

	case driverMemory:
		logger.Warn("using the in-memory store; records are lost on restart")
		return memory.NewFoodStore(logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func poolConfig(cfg config.DatabaseConfig) postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
