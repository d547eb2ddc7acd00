// Package ratelimit counts requests per key in sliding windows kept in Redis.
package ratelimit

import (
	"context"
	"time"
)

// Config caps requests per window; a zero limit disables that window.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config Config) (bool, error)
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
