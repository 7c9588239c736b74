package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qres429/chatdoc-pro/internal/config"
	"github.com/qres429/chatdoc-pro/internal/logger"
)

// InitRedis initializes the Redis client. A nil client is returned when
// Redis is unreachable; callers must treat that as "caching disabled".
func InitRedis(config *config.Config) *redis.Client {
	// Create a context with timeout for Redis operations
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisAddr := config.GetRedisAddr()
	logger.Log.Infof("Connecting to Redis at %s", redisAddr)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: config.RedisUsername,
		Password: config.RedisPassword,
	})

	// Try to ping Redis
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Log.Warnf("Failed to connect to Redis: %v", err)
		logger.Log.Warn("Application will continue without Redis caching")
		return nil
	}

	logger.Log.Info("Successfully connected to Redis")
	return redisClient
}
