package handler

import (
	"github.com/furnitureops/backend/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler handles production tracking endpoints
type ProductionHandler struct {
	BaseHandler
	trackingService *production.TrackingService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(trackingService *production.TrackingService) *ProductionHandler {
	return &ProductionHandler{trackingService: trackingService}
}

// GetByID godoc
// @ID           getTracking
// @Summary      Get a tracking record
// @Tags         production
// @Produce      json
// @Param        id path string true "Tracking ID" format(uuid)
// @Success      200 {object} APIResponse[production.TrackingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/{id} [get]
func (h *ProductionHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.trackingService.GetByID)
}

// List godoc
// @ID           listTracking
// @Summary      List tracking records
// @Tags         production
// @Produce      json
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        stage query string false "Stage"
// @Param        assigned_to query string false "Assignee"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]production.TrackingResponse]
// @Security     BearerAuth
// @Router       /production [get]
func (h *ProductionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter production.TrackingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.trackingService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// ListByOrder godoc
// @ID           listOrderTracking
// @Summary      Tracking records of an order
// @Tags         production
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[[]production.TrackingResponse]
// @Security     BearerAuth
// @Router       /orders/{id}/production [get]
func (h *ProductionHandler) ListByOrder(c *gin.Context) {
	byID(&h.BaseHandler, c, h.trackingService.ListByOrder)
}

// AdvanceStage godoc
// @ID           advanceTrackingStage
// @Summary      Advance to a later stage
// @Description  Stages only move forward. Completing the last item marks the order ready.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Tracking ID" format(uuid)
// @Param        request body production.AdvanceStageRequest true "Target stage"
// @Success      200 {object} APIResponse[production.TrackingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/{id}/advance [post]
func (h *ProductionHandler) AdvanceStage(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req production.AdvanceStageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tracking, err := h.trackingService.AdvanceStage(c.Request.Context(), tenantID, id, userID.String(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}

// UpdateProgress godoc
// @ID           updateTrackingProgress
// @Summary      Set progress within the current stage
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Tracking ID" format(uuid)
// @Param        request body production.UpdateProgressRequest true "Progress percentage"
// @Success      200 {object} APIResponse[production.TrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/{id}/progress [put]
func (h *ProductionHandler) UpdateProgress(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req production.UpdateProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tracking, err := h.trackingService.UpdateProgress(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}

// Assign godoc
// @ID           assignTracking
// @Summary      Assign a craftsperson or team
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Tracking ID" format(uuid)
// @Param        request body production.AssignRequest true "Assignee"
// @Success      200 {object} APIResponse[production.TrackingResponse]
// @Security     BearerAuth
// @Router       /production/{id}/assign [put]
func (h *ProductionHandler) Assign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req production.AssignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tracking, err := h.trackingService.Assign(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}
