package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/scheduler"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds each dependency probe
const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// JobScheduler is the part of the scheduler exposed over HTTP
type JobScheduler interface {
	Trigger(name string) error
	LastRuns() []scheduler.Run
}

// SystemHandler serves health, build info and scheduler endpoints
// @name HandlerSystemInfoResponse
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	scheduler JobScheduler
}

// NewSystemHandler creates a new SystemHandler. A nil scheduler disables the
// job endpoints.
func NewSystemHandler(name, version string, checks map[string]HealthCheck, sched JobScheduler) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		scheduler: sched,
	}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"furnitureops"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports each dependency
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the database and cache. Answers 503 when any check fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Build information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ListJobs godoc
// @ID           listSchedulerJobs
// @Summary      Latest run of every scheduled job
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[[]scheduler.Run]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/jobs [get]
func (h *SystemHandler) ListJobs(c *gin.Context) {
	if h.scheduler == nil {
		h.NotFound(c, "Scheduler is disabled")
		return
	}
	h.Success(c, h.scheduler.LastRuns())
}

// TriggerJob godoc
// @ID           triggerSchedulerJob
// @Summary      Run a scheduled job now
// @Tags         system
// @Produce      json
// @Param        name path string true "Job name"
// @Success      202 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/jobs/{name}/run [post]
func (h *SystemHandler) TriggerJob(c *gin.Context) {
	if h.scheduler == nil {
		h.NotFound(c, "Scheduler is disabled")
		return
	}
	name := c.Param("name")

	err := h.scheduler.Trigger(name)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, dto.OK(MessageData{Message: "Job " + name + " queued"}))
	case errors.Is(err, scheduler.ErrUnknownJob):
		h.NotFound(c, "Unknown job: "+name)
	case errors.Is(err, scheduler.ErrJobAlreadyRunning):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "Job is already running")
	case errors.Is(err, scheduler.ErrJobQueueFull):
		h.Error(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Job queue is full")
	default:
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, err.Error())
	}
}
