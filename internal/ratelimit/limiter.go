// Package ratelimit throttles unauthenticated endpoints per client IP using
// fixed windows counted in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client      redis.Cmdable
	maxRequests int64
	window      time.Duration
}

func NewLimiter(client redis.Cmdable, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		client:      client,
		maxRequests: int64(maxRequests),
		window:      window,
	}
}

// Allow records one request for ip and purpose and reports whether it fits
// in the current window.
func (l *Limiter) Allow(ctx context.Context, ip, purpose string) (bool, error) {
	key := windowKey(ip, purpose)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the first request's TTL so the window does not slide.
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}

	return incr.Val() <= l.maxRequests, nil
}

func windowKey(ip, purpose string) string {
	return fmt.Sprintf("rate_limit:%s:%s", purpose, ip)
}
