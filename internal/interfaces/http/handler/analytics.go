package handler

import (
	"time"

	"github.com/furnitureops/backend/internal/application/analytics"
	domainanalytics "github.com/furnitureops/backend/internal/domain/analytics"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the reporting endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// AgingQuery selects the aging reference date
type AgingQuery struct {
	AsOf time.Time `form:"as_of" time_format:"2006-01-02" time_utc:"1"`
}

// RangeQuery bounds the revenue dashboard. Zero values use the defaults.
type RangeQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// ARAging godoc
// @ID           getARAging
// @Summary      Accounts receivable aging
// @Description  Open balances bucketed by days past due
// @Tags         analytics
// @Produce      json
// @Param        as_of query string false "Reference date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[domainanalytics.AgingReport]
// @Security     BearerAuth
// @Router       /analytics/ar-aging [get]
func (h *AnalyticsHandler) ARAging(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q AgingQuery
	if !h.bindQuery(c, &q) {
		return
	}
	var asOf *time.Time
	if !q.AsOf.IsZero() {
		asOf = &q.AsOf
	}

	var report *domainanalytics.AgingReport
	report, err := h.analyticsService.ARAging(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ProductionBottlenecks godoc
// @ID           getProductionBottlenecks
// @Summary      Production bottlenecks
// @Description  Time spent by active items in each stage, slowest first
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[domainanalytics.BottleneckReport]
// @Security     BearerAuth
// @Router       /analytics/production-bottlenecks [get]
func (h *AnalyticsHandler) ProductionBottlenecks(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var report *domainanalytics.BottleneckReport
	report, err := h.analyticsService.ProductionBottlenecks(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// RevenueDashboard godoc
// @ID           getRevenueDashboard
// @Summary      Revenue dashboard
// @Description  Invoiced and collected totals per month over [from, to). Defaults to the last twelve months.
// @Tags         analytics
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[domainanalytics.RevenueDashboard]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/revenue [get]
func (h *AnalyticsHandler) RevenueDashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q RangeQuery
	if !h.bindQuery(c, &q) {
		return
	}

	var dashboard *domainanalytics.RevenueDashboard
	dashboard, err := h.analyticsService.RevenueDashboard(c.Request.Context(), tenantID, q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Refresh godoc
// @ID           refreshAnalytics
// @Summary      Drop cached reports
// @Tags         analytics
// @Success      204
// @Security     BearerAuth
// @Router       /analytics/refresh [post]
func (h *AnalyticsHandler) Refresh(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.analyticsService.Invalidate(c.Request.Context(), tenantID)
	h.NoContent(c)
}
