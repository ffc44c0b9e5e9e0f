// Package bootstrap opens the configured store and Redis and seeds the
// built-in catalog before the server starts.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/repository"
	"skillswap/internal/seed"
	"skillswap/internal/store/memory"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedCatalog bool
	// DemoUsers is the number of fake users to create after the catalog.
	DemoUsers int
}

// Runtime is everything the server needs from the outside world.
type Runtime struct {
	Repos repository.Set
	// DB is nil for the memory store.
	DB    *gorm.DB
	Redis *redis.Client
}

// OpenStore builds the repository set for cfg.StoreDriver.
func OpenStore(cfg *config.Config) (repository.Set, *gorm.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return memory.New().Set(), nil, nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return repository.Set{}, nil, fmt.Errorf("database connection failed: %w", err)
	}
	return repository.NewGormSet(db), db, nil
}

// InitRuntime opens the store, connects Redis (nil when unavailable) and
// runs the requested seeding.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	repos, db, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	rt := &Runtime{Repos: repos, DB: db, Redis: cache.GetClient()}

	if opts.SeedCatalog {
		if err := seed.Catalog(ctx, repos); err != nil {
			return nil, fmt.Errorf("failed to seed skill catalog: %w", err)
		}
	}
	if opts.DemoUsers > 0 {
		if _, err := seed.DemoUsers(ctx, repos, seed.DemoOptions{Count: opts.DemoUsers}); err != nil {
			return nil, fmt.Errorf("failed to seed demo users: %w", err)
		}
	}

	return rt, nil
}

// Close releases the SQL pool and the Redis client.
func (rt *Runtime) Close() error {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			middleware.Logger.Warn("error closing redis", slog.String("error", err.Error()))
		}
	}
	if rt.DB == nil {
		return nil
	}
	sqlDB, err := rt.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
