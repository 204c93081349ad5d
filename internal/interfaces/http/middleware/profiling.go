package middleware

import (
	"context"
	"strings"

	"github.com/furnitureops/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling runs the rest of the chain under pyroscope labels (method,
// route, resource and tenant) so CPU profiles can be sliced per endpoint.
// Place it after the JWT middleware.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || strings.HasPrefix(route, "/swagger") || route == "/health" {
			c.Next()
			return
		}
		labels := map[string]string{
			"method":    c.Request.Method,
			"route":     route,
			"resource":  ResourceFromRoute(route),
			"tenant_id": GetJWTTenantID(c),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// ResourceFromRoute returns the first static segment after /api/vN:
// "/api/v1/orders/:id/confirm" gives "orders".
func ResourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
