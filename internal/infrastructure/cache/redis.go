package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	sharedConfig "github.com/parkwarden/parkwarden/internal/shared/config"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// NewRedisClient returns nil when no host is configured or the server cannot
// be reached; printer settings are then read without caching.
func NewRedisClient(ctx context.Context, cfg *sharedConfig.RedisConfig, log logger.Interface) *redis.Client {
	if !cfg.Enabled() {
		log.Infow("redis not configured, printer settings cache disabled")
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warnw("failed to connect to Redis, printer settings cache disabled", "error", err)
		_ = redisClient.Close()
		return nil
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}
