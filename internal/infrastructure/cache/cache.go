package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys with a TTL
type Cache interface {
	// Get decodes the value for key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// Cache errors degrade to calling load.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		if hit, err := c.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		_ = c.Set(ctx, key, v, ttl)
	}
	return v, nil
}
