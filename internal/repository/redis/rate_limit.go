package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
)

// FixedWindowConfig defines the window geometry for the limiter.
type FixedWindowConfig struct {
	KeyPrefix string
	Window    time.Duration
	Limit     int
}

// FixedWindowLimiter implements a fixed-window rate limiter on Redis
// counters. Time is partitioned into non-overlapping windows; each key
// holds one counter per window, incremented atomically with INCR and
// expired at the window boundary.
type FixedWindowLimiter struct {
	client *redis.Client
	cfg    FixedWindowConfig
	now    func() time.Time
}

// NewFixedWindowLimiter constructs a limiter using the provided Redis client and config.
func NewFixedWindowLimiter(client *redis.Client, cfg FixedWindowConfig) *FixedWindowLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &FixedWindowLimiter{client: client, cfg: cfg, now: time.Now}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (l *FixedWindowLimiter) WithClock(now func() time.Time) *FixedWindowLimiter {
	if now != nil {
		l.now = now
	}
	return l
}

// Limit increments the counter for key in the current window and reports
// whether the call is within the cap. The increment happens on every
// call, allowed or not. An error return means Redis is unreachable and
// the caller must treat the request as denied.
func (l *FixedWindowLimiter) Limit(ctx context.Context, key string) (domain.RateLimitResult, error) {
	now := l.now()
	windowStart := now.Truncate(l.cfg.Window)
	resetAt := windowStart.Add(l.cfg.Window)

	storageKey := l.key(key, windowStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, storageKey)
	pipe.ExpireAt(ctx, storageKey, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.RateLimitResult{}, fmt.Errorf("redis incr %s: %w", storageKey, err)
	}

	count := int(incr.Val())
	remaining := l.cfg.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return domain.RateLimitResult{
		Allowed:   count <= l.cfg.Limit,
		Limit:     l.cfg.Limit,
		Remaining: remaining,
		ResetAt:   resetAt.Unix(),
	}, nil
}

func (l *FixedWindowLimiter) key(identifier string, windowStart time.Time) string {
	if l.cfg.KeyPrefix == "" {
		return fmt.Sprintf("%s:%d", identifier, windowStart.Unix())
	}
	return fmt.Sprintf("%s:%s:%d", l.cfg.KeyPrefix, identifier, windowStart.Unix())
}

var _ port.RateLimiter = (*FixedWindowLimiter)(nil)
