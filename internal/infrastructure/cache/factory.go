package cache

import (
	"context"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open returns a redis-backed cache when redis is configured and reachable,
// and an in-memory cache otherwise. The redis client is returned for reuse
// by other components and is nil on fallback.
func Open(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (Cache, *redis.Client) {
	if cfg.Addr() == "" {
		logger.Info("Redis not configured, using in-memory cache")
		return NewMemoryCache(0), nil
	}
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache. "+
			"Cached analytics will not be shared across instances.",
			zap.Error(err),
		)
		return NewMemoryCache(0), nil
	}
	logger.Info("Using Redis cache", zap.String("addr", cfg.Addr()))
	return NewRedisCache(client, ""), client
}
