package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/furnitureops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	goleak.VerifyTestMain(m)
}

// authenticated stands in for the JWT middleware
func authenticated(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func perform(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"legacy not found", shared.NewDomainError("NOT_FOUND", "Invoice not found"), http.StatusNotFound, dto.ErrCodeNotFound, "Invoice not found"},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Order is not confirmed"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Order is not confirmed"},
		{"invalid prefix", shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive"), http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive"},
		{"not found suffix", shared.NewDomainError("BOARD_NOT_FOUND", "Board not found"), http.StatusNotFound, "BOARD_NOT_FOUND", "Board not found"},
		{"already prefix", shared.NewDomainError("ALREADY_INVOICED", "Order already has an invoice"), http.StatusConflict, "ALREADY_INVOICED", "Order already has an invoice"},
		{"wrapped", fmt.Errorf("send: %w", shared.NewDomainError("FORBIDDEN", "Not yours")), http.StatusForbidden, dto.ErrCodeForbidden, "Not yours"},
		{"plain error is hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			engine := gin.New()
			engine.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := perform(engine, http.MethodGet, "/x", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestByID(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	known := uuid.New()
	h := &BaseHandler{}
	lookup := func(_ context.Context, tid, id uuid.UUID) (map[string]string, error) {
		if tid != tenantID {
			return nil, errors.New("wrong tenant")
		}
		if id != known {
			return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
		}
		return map[string]string{"id": id.String()}, nil
	}

	engine := gin.New()
	engine.GET("/anon/:id", func(c *gin.Context) { byID(h, c, lookup) })
	engine.GET("/tasks/:id", authenticated(tenantID, userID), func(c *gin.Context) { byID(h, c, lookup) })

	t.Run("found", func(t *testing.T) {
		w := perform(engine, http.MethodGet, "/tasks/"+known.String(), "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, known.String(), resp.Data.(map[string]any)["id"])
	})

	t.Run("not found", func(t *testing.T) {
		w := perform(engine, http.MethodGet, "/tasks/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := perform(engine, http.MethodGet, "/tasks/42", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
		assert.Equal(t, "Invalid id", resp.Error.Message)
	})

	t.Run("no identity", func(t *testing.T) {
		w := perform(engine, http.MethodGet, "/anon/"+known.String(), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeleteByID(t *testing.T) {
	tenantID := uuid.New()
	var deleted uuid.UUID
	h := &BaseHandler{}
	engine := gin.New()
	engine.DELETE("/boards/:id", authenticated(tenantID, uuid.New()), func(c *gin.Context) {
		deleteByID(h, c, func(_ context.Context, _, id uuid.UUID) error {
			deleted = id
			return nil
		})
	})

	id := uuid.New()
	w := perform(engine, http.MethodDelete, "/boards/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, deleted)
}

type noteRequest struct {
	Title string `json:"title" binding:"required,max=10"`
	Phone string `json:"phone" binding:"omitempty,phone"`
}

func TestBindJSON(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.POST("/notes", func(c *gin.Context) {
		var req noteRequest
		if !h.bindJSON(c, &req) {
			return
		}
		h.Created(c, req)
	})
	engine.POST("/optional", func(c *gin.Context) {
		var req noteRequest
		if !h.bindOptionalJSON(c, &req) {
			return
		}
		h.Success(c, req)
	})

	t.Run("valid", func(t *testing.T) {
		w := perform(engine, http.MethodPost, "/notes", `{"title":"Oak top"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := perform(engine, http.MethodPost, "/notes", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decode(t, w).Error.Code)
	})

	t.Run("field details", func(t *testing.T) {
		w := perform(engine, http.MethodPost, "/notes", `{"phone":"call me"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make(map[string]string)
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Contains(t, fields, "title")
		assert.Equal(t, "Invalid phone number", fields["phone"])
	})

	t.Run("optional body may be empty", func(t *testing.T) {
		w := perform(engine, http.MethodPost, "/optional", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/customers", func(c *gin.Context) {
		h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)
	})

	resp := decode(t, perform(engine, http.MethodGet, "/customers", ""))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
