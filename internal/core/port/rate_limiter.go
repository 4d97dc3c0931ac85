package port

import (
	"context"

	"github.com/syedukkashah/university-library/internal/core/domain"
)

// RateLimiter enforces a fixed-window request throttle keyed by client
// identifier. Every call counts against the window, allowed or not, so
// callers must not invoke Limit speculatively. An error return means the
// counter store is unreachable; callers are expected to fail closed.
type RateLimiter interface {
	Limit(ctx context.Context, key string) (domain.RateLimitResult, error)
}
