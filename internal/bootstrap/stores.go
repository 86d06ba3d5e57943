// Package bootstrap opens the storage backends selected by configuration.
// It is shared by the API server and the seed command.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/delivery/http/handler"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/repository/cache"
	"github.com/foodspot-finder/internal/repository/memory"
	"github.com/foodspot-finder/internal/repository/mongodb"
	"github.com/foodspot-finder/internal/repository/postgres"
)

// Stores bundles the repositories of one running process.
type Stores struct {
	Spots repository.SpotRepository
	Users repository.UserRepository
	// Cache is nil when Redis is disabled.
	Cache repository.CacheRepository
	// Checks feeds the health endpoint, keyed by component name.
	Checks map[string]handler.HealthChecker

	closers []func(context.Context) error
	logger  *zap.Logger
}

// Open connects to the configured store driver and, when enabled, Redis.
// Postgres migrations and Mongo indexes are in place when it returns.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{
		Checks: make(map[string]handler.HealthChecker),
		logger: logger,
	}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		s.Spots = memory.NewSpotRepository()
		s.Users = memory.NewUserRepository()
		logger.Warn("Using in-memory store; data is lost on restart")

	case config.StorePostgres:
		db, err := postgres.New(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		if err := postgres.Migrate(ctx, db.DB, logger); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		s.Spots = postgres.NewSpotRepository(db)
		s.Users = postgres.NewUserRepository(db)
		s.Checks["postgres"] = db

	case config.StoreMongo:
		db, err := mongodb.New(&cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.Spots = mongodb.NewSpotRepository(db)
		s.Users = mongodb.NewUserRepository(db)
		s.Checks["mongo"] = db

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(&cfg.Redis, logger)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		s.Cache = cache.NewCacheRepository(rdb)
		s.Checks["redis"] = rdb
	}

	logger.Info("Stores ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("cache", s.Cache != nil),
	)
	return s, nil
}

// Close releases connections in reverse order of opening.
func (s *Stores) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}
	s.closers = nil
}
