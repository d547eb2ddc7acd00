package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one sorted set of request timestamps per key and
// window. Rejected requests are not recorded.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config Config) (bool, error) {
	now := l.now()

	windows := []struct {
		duration time.Duration
		limit    int
	}{
		{time.Minute, config.RequestsPerMinute},
		{time.Hour, config.RequestsPerHour},
	}

	var active []time.Duration
	for _, window := range windows {
		if window.limit <= 0 {
			continue
		}

		count, err := l.count(ctx, key, window.duration, now)
		if err != nil {
			return false, err
		}
		if count >= int64(window.limit) {
			return false, nil
		}
		active = append(active, window.duration)
	}

	if len(active) == 0 {
		return true, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	pipe := l.client.Pipeline()
	for _, window := range active {
		redisKey := l.getKey(key, window)
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
		pipe.Expire(ctx, redisKey, window+time.Minute)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}

	return true, nil
}

// Count returns the requests recorded for key within the trailing window.
func (l *RedisRateLimiter) Count(ctx context.Context, key string, window time.Duration) (int64, error) {
	return l.count(ctx, key, window, l.now())
}

func (l *RedisRateLimiter) count(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	redisKey := l.getKey(key, window)
	windowStart := now.Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}

	return zcard.Val(), nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := fmt.Sprintf("ratelimit:%s:*", key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, window.String())
}
