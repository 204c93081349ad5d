package logger

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Keys under which request scoped values live in the gin context. The JWT
// middleware fills tenant and user.
const (
	GinLoggerKey    = "logger"
	GinRequestIDKey = "request_id"
	GinTenantIDKey  = "tenant_id"
	GinUserIDKey    = "user_id"
)

// GinMiddleware writes one access log line per request and hands handlers a
// logger already tagged with the request id. 5xx log at error, 4xx at warn
// and health probes at debug.
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(GinRequestIDKey)

		reqLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Set(GinLoggerKey, reqLogger)
		ctx, _ := WithRequestID(c.Request.Context(), reqLogger, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := append(make([]zap.Field, 0, 7),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("body_size", c.Writer.Size()),
		)
		for key, value := range map[string]string{
			"query":     c.Request.URL.RawQuery,
			"tenant_id": c.GetString(GinTenantIDKey),
			"user_id":   c.GetString(GinUserIDKey),
		} {
			if value != "" {
				fields = append(fields, zap.String(key, value))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		if ce := reqLogger.Check(accessLevel(status, c.FullPath()), "HTTP Request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func accessLevel(status int, route string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case strings.HasSuffix(route, "/health"):
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery answers a panicking handler with a 500 envelope. Broken client
// connections are left to gin, which aborts without writing.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID := c.GetString(GinRequestIDKey)
		logger.Error("Panic recovered",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("error", recovered),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":       "ERR_INTERNAL",
				"message":    "An internal error occurred",
				"request_id": requestID,
			},
		})
	})
}

// GetGinLogger returns the request logger, or a no-op logger outside
// GinMiddleware.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if zl, ok := c.Value(GinLoggerKey).(*zap.Logger); ok {
		return zl
	}
	return zap.NewNop()
}
