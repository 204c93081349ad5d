package middleware

import (
	"net/http"

	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission rejects the request with 403 unless the caller's token
// grants permission (a "<resource>:<action>" code, or "*").
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission requires at least one of permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, permissions, "No authentication claims found")
			return
		}
		for _, p := range permissions {
			if identity.HasPermission(claims.Permissions, p) {
				c.Next()
				return
			}
		}
		denyPermission(c, permissions, "User lacks required permission")
	}
}

// RequireRole requires the caller to hold one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims != nil {
			for _, r := range roles {
				if identity.Role(claims.Role) == r {
					c.Next()
					return
				}
			}
		}
		required := make([]string, len(roles))
		for i, r := range roles {
			required[i] = "role:" + string(r)
		}
		denyPermission(c, required, "User lacks required role")
	}
}

// HasPermission reports whether the caller holds permission
func HasPermission(c *gin.Context, permission string) bool {
	return identity.HasPermission(GetJWTPermissions(c), permission)
}

func denyPermission(c *gin.Context, required []string, reason string) {
	logger.GetGinLogger(c).Warn("Permission denied",
		zap.String("user_id", GetJWTUserID(c)),
		zap.Strings("required", required),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path))

	abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient permissions")
}
