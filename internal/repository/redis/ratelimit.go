package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/purva-labs/sahayak-api/internal/config"
)

const rateLimitKeyPrefix = "ratelimit:ip:"

// RateLimiter throttles the generation endpoints per caller IP with a
// fixed one-minute window in Redis. A nil *RateLimiter allows every
// request, which is how the service runs when Redis is disabled.
type RateLimiter struct {
	client *Client
	limit  int64
	window time.Duration
}

// NewRateLimiter builds a limiter allowing the configured requests per
// minute plus a burst allowance on top.
func NewRateLimiter(client *Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(cfg.RequestsPerMinute + cfg.Burst),
		window: time.Minute,
	}
}

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Allow consumes one request slot for the caller IP and reports
// whether the request may proceed.
func (r *RateLimiter) Allow(ctx context.Context, callerIP string) (Decision, error) {
	if r == nil {
		return Decision{Allowed: true}, nil
	}

	key := rateLimitKeyPrefix + callerIP
	resetAt := time.Now().Truncate(r.window).Add(r.window)

	pipe := r.client.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("rate limit check for %s: %w", callerIP, err)
	}

	count := incr.Val()
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= r.limit,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for one caller IP.
func (r *RateLimiter) Reset(ctx context.Context, callerIP string) error {
	if r == nil {
		return nil
	}
	return r.client.rdb.Del(ctx, rateLimitKeyPrefix+callerIP).Err()
}
