package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/furnitureops/backend/internal/infrastructure/scheduler"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Trigger(name string) error {
	return m.Called(name).Error(0)
}

func (m *mockScheduler) LastRuns() []scheduler.Run {
	args := m.Called()
	if runs := args.Get(0); runs != nil {
		return runs.([]scheduler.Run)
	}
	return nil
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("furnitureops", "1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"cache":    func(context.Context) error { return nil },
		}, nil)
		engine := gin.New()
		engine.GET("/health", h.Health)

		w := perform(engine, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, map[string]any{"database": "ok", "cache": "ok"}, data["checks"])
	})

	t.Run("failing check degrades", func(t *testing.T) {
		h := NewSystemHandler("furnitureops", "1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"cache":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		}, nil)
		engine := gin.New()
		engine.GET("/health", h.Health)

		w := perform(engine, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "dial tcp: connection refused", data["checks"].(map[string]any)["cache"])
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("furnitureops", "1.2.0", nil, nil)
	engine := gin.New()
	engine.GET("/system/info", h.GetSystemInfo)

	data := decode(t, perform(engine, http.MethodGet, "/system/info", "")).Data.(map[string]any)
	assert.Equal(t, "furnitureops", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
}

func TestSystemHandler_Jobs(t *testing.T) {
	sched := new(mockScheduler)
	h := NewSystemHandler("furnitureops", "1.2.0", nil, sched)
	engine := gin.New()
	engine.GET("/system/jobs", h.ListJobs)
	engine.POST("/system/jobs/:name/run", h.TriggerJob)

	sched.On("LastRuns").Return([]scheduler.Run{{Name: "overdue-sweep", Status: scheduler.JobStatusSuccess}})
	sched.On("Trigger", "overdue-sweep").Return(nil)
	sched.On("Trigger", "nightly-backup").Return(scheduler.ErrUnknownJob)
	sched.On("Trigger", "churn-refresh").Return(scheduler.ErrJobAlreadyRunning)
	sched.On("Trigger", "lead-scores").Return(scheduler.ErrJobQueueFull)
	sched.On("Trigger", "campaign-retry").Return(scheduler.ErrSchedulerNotRunning)

	w := perform(engine, http.MethodGet, "/system/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	runs := decode(t, w).Data.([]any)
	require.Len(t, runs, 1)
	assert.Equal(t, "overdue-sweep", runs[0].(map[string]any)["name"])

	tests := []struct {
		job      string
		want     int
		wantCode string
	}{
		{"overdue-sweep", http.StatusAccepted, ""},
		{"nightly-backup", http.StatusNotFound, dto.ErrCodeNotFound},
		{"churn-refresh", http.StatusConflict, dto.ErrCodeConflict},
		{"lead-scores", http.StatusTooManyRequests, dto.ErrCodeRateLimited},
		{"campaign-retry", http.StatusServiceUnavailable, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			w := perform(engine, http.MethodPost, "/system/jobs/"+tt.job+"/run", "")
			assert.Equal(t, tt.want, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
			}
		})
	}
	sched.AssertExpectations(t)
}

func TestSystemHandler_NoScheduler(t *testing.T) {
	h := NewSystemHandler("furnitureops", "1.2.0", nil, nil)
	engine := gin.New()
	engine.POST("/system/jobs/:name/run", h.TriggerJob)

	w := perform(engine, http.MethodPost, "/system/jobs/overdue-sweep/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
