package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/infrastructure/auth"
	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-with-enough-length-32",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "furnitureops-test",
		MaxRefreshCount:        3,
	})
}

func issue(t *testing.T, svc *auth.JWTService, role identity.Role) (string, uuid.UUID, uuid.UUID) {
	t.Helper()
	tenantID, userID := uuid.New(), uuid.New()
	pair, err := svc.GenerateTokenPair(auth.TokenInput{
		TenantID:    tenantID,
		UserID:      userID,
		Username:    "mira",
		Role:        string(role),
		Permissions: role.Permissions(),
	})
	require.NoError(t, err)
	return pair.AccessToken, tenantID, userID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newJWTService()

	setup := func(cfg JWTMiddlewareConfig) *gin.Engine {
		r := gin.New()
		r.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
		r.GET("/api/v1/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tenant": GetJWTTenantID(c), "user": GetJWTUserID(c)})
		})
		r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("valid token stores claims", func(t *testing.T) {
		token, tenantID, userID := issue(t, svc, identity.RoleSales)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		setup(DefaultJWTConfig(svc)).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID.String())
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("public path skips auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		setup(DefaultJWTConfig(svc)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		setup(DefaultJWTConfig(svc)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeUnauthorized, errInfo.Code)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set(AuthHeaderKey, "Bearer not-a-jwt")
		setup(DefaultJWTConfig(svc)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, _, _ := issue(t, svc, identity.RoleSales)
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		store := auth.NewMemoryRevocationStore()
		require.NoError(t, store.RevokeToken(context.Background(), claims.ID, time.Hour))

		cfg := DefaultJWTConfig(svc)
		cfg.Revocations = store
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		setup(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		token, _, userID := issue(t, svc, identity.RoleViewer)
		store := auth.NewMemoryRevocationStore()
		require.NoError(t, store.RevokeUser(context.Background(), userID.String(), time.Hour))

		cfg := DefaultJWTConfig(svc)
		cfg.Revocations = store
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		setup(cfg).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	svc := newJWTService()
	r := gin.New()
	r.Use(JWTAuthMiddleware(svc))
	r.DELETE("/api/v1/invoices/:id", RequirePermission("invoice:delete"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/api/v1/users", RequireRole(identity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(role identity.Role, method, path string) *httptest.ResponseRecorder {
		token, _, _ := issue(t, svc, role)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, call(identity.RoleFinance, http.MethodDelete, "/api/v1/invoices/1").Code)
	assert.Equal(t, http.StatusNoContent, call(identity.RoleAdmin, http.MethodDelete, "/api/v1/invoices/1").Code)

	w := call(identity.RoleSales, http.MethodDelete, "/api/v1/invoices/1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, w).Code)

	assert.Equal(t, http.StatusOK, call(identity.RoleAdmin, http.MethodGet, "/api/v1/users").Code)
	assert.Equal(t, http.StatusForbidden, call(identity.RoleManager, http.MethodGet, "/api/v1/users").Code)
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://studio.example.com"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://studio.example.com")
		r.ServeHTTP(w, req)
		assert.Equal(t, "https://studio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://studio.example.com")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), logger.GinMiddleware(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestSecure(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	r := gin.New()
	r.Use(Secure(cfg))
	r.GET("/api/v1/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/api/v1/tasks", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"title":"x"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodePayloadTooLarge, decodeError(t, w).Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewMemoryLimiter(2, time.Minute)
	defer limiter.Close()

	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	defer limiter.Close()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	ok, remaining, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, _, _ = limiter.Allow(ctx, "k")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _, _ = limiter.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestSwaggerProtection(t *testing.T) {
	build := func(cfg SwaggerConfig) *gin.Engine {
		r := gin.New()
		r.GET("/swagger/*any", SwaggerProtection(cfg, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	get := func(r *gin.Engine, remote string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = remote
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNotFound, get(build(SwaggerConfig{}), "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, get(build(SwaggerConfig{Enabled: true}), "10.0.0.1:1234"))

	restricted := build(SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/24", "192.168.1.7"}})
	assert.Equal(t, http.StatusOK, get(restricted, "10.0.0.9:1234"))
	assert.Equal(t, http.StatusOK, get(restricted, "192.168.1.7:1234"))
	assert.Equal(t, http.StatusForbidden, get(restricted, "172.16.0.1:1234"))
}

func TestResourceFromRoute(t *testing.T) {
	assert.Equal(t, "orders", ResourceFromRoute("/api/v1/orders/:id/confirm"))
	assert.Equal(t, "exports", ResourceFromRoute("/api/v1/exports/:resource"))
	assert.Equal(t, "health", ResourceFromRoute("/health"))
	assert.Empty(t, ResourceFromRoute(""))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(204))
	assert.Equal(t, "4xx", StatusClass(422))
	assert.Equal(t, "5xx", StatusClass(502))
}

type phoneRequest struct {
	Phone string `json:"phone" binding:"omitempty,phone"`
	Name  string `json:"name" binding:"required"`
}

func TestValidation(t *testing.T) {
	SetupValidator()
	r := gin.New()
	r.POST("/check", func(c *gin.Context) {
		var req phoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail(dto.ErrCodeValidation, "invalid", ValidationDetails(err)...))
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post(`{"name":"Ada","phone":"+44 (20) 7946-0958"}`).Code)

	w := post(`{"phone":"call me"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errInfo := decodeError(t, w)
	fields := map[string]string{}
	for _, d := range errInfo.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid phone number", fields["phone"])
	assert.Equal(t, "This field is required", fields["name"])
}
