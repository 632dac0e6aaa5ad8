package ratelimit

import "context"

// RateLimiter controls gateway send throughput per sender number.
type RateLimiter interface {
	Allow(ctx context.Context, sender string) (bool, error)
	Wait(ctx context.Context, sender string) error
}
