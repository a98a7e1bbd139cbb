// Package cache owns the Redis client used for rate limiting and readiness.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"socialfeed/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewClient builds a client for addr, which may be a host:port pair or a
// redis:// URL.
func NewClient(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})
	return c, nil
}

// InitRedis initializes the Redis client with the given address. An
// unreachable server leaves the client nil; callers apply their own fail
// policy.
func InitRedis(addr string) {
	c, err := NewClient(addr)
	if err != nil {
		middleware.Logger.Warn("Redis connection warning: invalid REDIS_URL (continuing without redis)",
			slog.String("addr", addr), slog.String("error", err.Error()))
		client = nil
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection warning (continuing without redis)", slog.String("error", err.Error()))
		_ = c.Close()
		client = nil
		return
	}
	middleware.Logger.Info("Redis connected successfully")
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
