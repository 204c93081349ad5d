package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is a fixed-window request counter
type Limiter interface {
	// Allow counts one request for key and reports whether it is within the
	// limit, along with the requests left in the current window.
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

// MemoryLimiter keeps per-key windows in process memory. Close stops the
// sweeper goroutine.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

type window struct {
	count int
	start time.Time
}

// NewMemoryLimiter creates a limiter allowing limit requests per period
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

func (l *MemoryLimiter) sweep() {
	ticker := time.NewTicker(2 * l.period)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.clients {
				if now.Sub(w.start) > 2*l.period {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.clients[key] = w
	}
	if w.count >= l.limit {
		return false, 0, nil
	}
	w.count++
	return true, l.limit - w.count, nil
}

func (l *MemoryLimiter) Limit() int { return l.limit }

// Close stops the background sweeper
func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

// RedisLimiter shares windows across instances with INCR and EXPIRE
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	period time.Duration
}

// NewRedisLimiter creates a redis-backed limiter
func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, period time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "furn:ratelimit:"
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, period: period}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := time.Now().UnixNano() / int64(l.period)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.period)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, l.limit, err
	}
	count := int(incr.Val())
	if count > l.limit {
		return false, 0, nil
	}
	return true, l.limit - count, nil
}

func (l *RedisLimiter) Limit() int { return l.limit }

// RateLimit limits requests per client IP, scoped by tenant once the JWT
// middleware has run. Limiter errors let the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			return tenantID + ":" + c.ClientIP()
		}
		return c.ClientIP()
	})
}

// RateLimitByKey limits requests grouped by keyFunc
func RateLimitByKey(limiter Limiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			logger.GetGinLogger(c).Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
