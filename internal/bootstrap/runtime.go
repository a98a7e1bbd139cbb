// Package bootstrap wires the data stores a process needs at startup.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialfeed/internal/cache"
	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/models"
	"socialfeed/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipDevSeed disables DEV_SEED_DEMO and DEV_SEED_FIXTURE handling.
	SkipDevSeed bool
}

// InitRuntime connects to DB and Redis and, in development, optionally seeds
// an empty database.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if !opts.SkipDevSeed {
		if err := seedDevelopment(ctx, cfg, db); err != nil {
			return nil, nil, fmt.Errorf("development seeding failed: %w", err)
		}
	}

	return db, r, nil
}

func seedDevelopment(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}
	if !cfg.DevSeedDemo && cfg.DevSeedFixture == "" {
		return nil
	}

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		slog.InfoContext(ctx, "skipping development seed, database not empty", slog.Int64("users", users))
		return nil
	}

	if cfg.DevSeedFixture != "" {
		fx, err := seed.LoadFixture(cfg.DevSeedFixture)
		if err != nil {
			return err
		}
		if _, err := seed.ApplyFixture(ctx, db, fx, time.Now().UTC()); err != nil {
			return err
		}
		slog.InfoContext(ctx, "applied development fixture", slog.String("path", cfg.DevSeedFixture))
		return nil
	}

	_, err := seed.NewSeeder(db, seed.DefaultOptions()).Run(ctx)
	return err
}
