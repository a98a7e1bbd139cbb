package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var errNoLimitStore = errors.New("rate limit store not configured")

// FailPolicy decides what happens to a request when the counter store cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

// Limit is a request budget shared by one viewer, or by one client IP for
// anonymous readers.
type Limit struct {
	Resource string
	Max      int
	Window   time.Duration
	Policy   FailPolicy
}

// limitsBypassed reports whether APP_ENV turns limiting off. Unset means development.
func limitsBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

func limitKey(resource, subject string) string {
	return fmt.Sprintf("rl:%s:%s", resource, subject)
}

// limitSubject prefers the authenticated viewer over the client IP.
func limitSubject(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + c.IP()
}

// hit counts one request against key. The window starts on the first hit.
func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return cnt, nil
}

// CheckRateLimit counts a request for subject against resource and reports
// whether it stays within limit for the current window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, subject string, limit int, window time.Duration) (bool, error) {
	if limitsBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoLimitStore
	}
	cnt, err := hit(ctx, rdb, limitKey(resource, subject), window)
	if err != nil {
		return false, err
	}
	return cnt <= int64(limit), nil
}

// onStoreError applies the policy after the counter store failed.
func (p FailPolicy) onStoreError(c *fiber.Ctx, resource string, err error) error {
	if p != FailClosed {
		return c.Next()
	}
	Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
		slog.String("path", c.Path()),
		slog.String("resource", resource),
		slog.String("error", err.Error()),
	)
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "rate limit unavailable",
	})
}

// retryAfter is the time left in subject's window, at least one second.
func retryAfter(ctx context.Context, rdb *redis.Client, key string, window time.Duration) int {
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	if secs := int(ttl / time.Second); secs > 0 {
		return secs
	}
	return 1
}

// Enforce returns a Fiber middleware that applies l to each request.
func Enforce(rdb *redis.Client, l Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := l.Resource
		if resource == "" {
			resource = c.Path()
		}
		subject := limitSubject(c)

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, subject, l.Max, l.Window)
		if err != nil {
			return l.Policy.onStoreError(c, resource, err)
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter(c.UserContext(), rdb, limitKey(resource, subject), l.Window)))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

// RateLimit allows limit requests per window and fails open. The optional
// name groups routes under one budget; the request path is used otherwise.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	l := Limit{Max: limit, Window: window, Policy: policy}
	if len(name) > 0 {
		l.Resource = name[0]
	}
	return Enforce(rdb, l)
}
