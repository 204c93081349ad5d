package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/infrastructure/auth"
	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/furnitureops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func serve(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-with-32-chars!",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "furnitureops-test",
		MaxRefreshCount:        3,
	})
}

func tokenFor(t *testing.T, svc *auth.JWTService, role identity.Role) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.TokenInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Username:    "tomas",
		Role:        string(role),
		Permissions: role.Permissions(),
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestMount(t *testing.T) {
	engine := gin.New()

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("/ping", Public, ok("pong"))
	Mount(engine, orders)

	w := serve(engine, http.MethodGet, "/api/v1/orders/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/collections")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/collections", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("tasks", "/tasks")
		g.GET("", Public, ok("list")).
			POST("", Public, ok("create")).
			PUT("/:id", Public, ok("update")).
			PATCH("/:id", Public, ok("patch")).
			DELETE("/:id", Public, ok("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			body   string
		}{
			{http.MethodGet, "/api/v1/tasks", "list"},
			{http.MethodPost, "/api/v1/tasks", "create"},
			{http.MethodPut, "/api/v1/tasks/1", "update"},
			{http.MethodPatch, "/api/v1/tasks/1", "patch"},
			{http.MethodDelete, "/api/v1/tasks/1", "delete"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path, "")
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, tt.body, w.Body.String())
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("system", "/system").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusTeapot)
		})
		g.Group("jobs", "/jobs").GET("", Public, ok("jobs"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodGet, "/api/v1/system/jobs", "").Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("boards", "/boards")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("", Public, ok("ok"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/boards", "")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("catalog", "")
		g.Group("collections", "/collections").GET("", Public, ok("collections"))
		g.Group("products", "/products").GET("", Public, ok("products"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "collections", serve(engine, http.MethodGet, "/api/v1/collections", "").Body.String())
		assert.Equal(t, "products", serve(engine, http.MethodGet, "/api/v1/products", "").Body.String())
	})
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("automation", "/automation")
	g.Group("rules", "/rules").
		GET("", "automation:read", ok("")).
		POST("/:id/test", "automation:execute", ok(""))
	g.POST("/trigger", "automation:execute", ok(""))

	assert.ElementsMatch(t, []RouteInfo{
		{Method: http.MethodPost, Path: "/automation/trigger", Permission: "automation:execute"},
		{Method: http.MethodGet, Path: "/automation/rules", Permission: "automation:read"},
		{Method: http.MethodPost, Path: "/automation/rules/:id/test", Permission: "automation:execute"},
	}, g.Routes())
}

func TestDomainGroup_EnforcesPermission(t *testing.T) {
	svc := newJWTService()
	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddleware(svc))

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.GET("", "invoice:read", ok("list"))
	invoices.DELETE("/:id", "invoice:delete", ok("deleted"))
	Mount(engine, invoices)

	tests := []struct {
		name   string
		role   identity.Role
		method string
		path   string
		want   int
	}{
		{"finance reads", identity.RoleFinance, http.MethodGet, "/api/v1/invoices", http.StatusOK},
		{"finance deletes", identity.RoleFinance, http.MethodDelete, "/api/v1/invoices/1", http.StatusOK},
		{"sales cannot delete", identity.RoleSales, http.MethodDelete, "/api/v1/invoices/1", http.StatusForbidden},
		{"viewer reads", identity.RoleViewer, http.MethodGet, "/api/v1/invoices", http.StatusOK},
		{"viewer cannot delete", identity.RoleViewer, http.MethodDelete, "/api/v1/invoices/1", http.StatusForbidden},
		{"admin wildcard", identity.RoleAdmin, http.MethodDelete, "/api/v1/invoices/1", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, tokenFor(t, svc, tt.role))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("no token", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/invoices", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
