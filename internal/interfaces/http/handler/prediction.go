package handler

import (
	"github.com/furnitureops/backend/internal/application/prediction"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PredictionHandler handles forecast and scoring endpoints
type PredictionHandler struct {
	BaseHandler
	predictionService *prediction.Service
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(predictionService *prediction.Service) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// LatestQuery selects the newest stored prediction
type LatestQuery struct {
	Type      string     `form:"type" binding:"required,oneof=revenue churn demand lead_score"`
	SubjectID *uuid.UUID `form:"subject_id"`
}

// PredictRevenue godoc
// @ID           predictRevenue
// @Summary      Forecast revenue
// @Description  Projects monthly collections from payment history. The result is stored.
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        request body prediction.RevenueForecastRequest false "Horizon and history window"
// @Success      201 {object} APIResponse[prediction.PredictionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /predictions/revenue [post]
func (h *PredictionHandler) PredictRevenue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req prediction.RevenueForecastRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.predictionService.PredictRevenue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// PredictDemand godoc
// @ID           predictDemand
// @Summary      Forecast product demand
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body prediction.DemandForecastRequest false "Horizon and history window"
// @Success      201 {object} APIResponse[prediction.PredictionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /predictions/demand/{id} [post]
func (h *PredictionHandler) PredictDemand(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req prediction.DemandForecastRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.predictionService.PredictDemand(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// PredictChurn godoc
// @ID           predictChurn
// @Summary      Score a customer's churn risk
// @Tags         predictions
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      201 {object} APIResponse[prediction.PredictionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /predictions/churn/{id} [post]
func (h *PredictionHandler) PredictChurn(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.predictionService.PredictChurn(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ScoreLeads godoc
// @ID           scoreLeads
// @Summary      Score open leads
// @Description  Returns leads ordered by score, highest first
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        request body prediction.LeadScoreRequest false "Limit"
// @Success      200 {object} APIResponse[[]prediction.LeadScoreResponse]
// @Security     BearerAuth
// @Router       /predictions/lead-scores [post]
func (h *PredictionHandler) ScoreLeads(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req prediction.LeadScoreRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	scores, err := h.predictionService.ScoreLeads(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, scores)
}

// List godoc
// @ID           listPredictions
// @Summary      Stored predictions
// @Tags         predictions
// @Produce      json
// @Param        type query string false "revenue, churn, demand or lead_score"
// @Param        subject_id query string false "Subject ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]prediction.PredictionResponse]
// @Security     BearerAuth
// @Router       /predictions [get]
func (h *PredictionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter prediction.PredictionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.predictionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Latest godoc
// @ID           latestPrediction
// @Summary      Newest stored prediction of a type
// @Tags         predictions
// @Produce      json
// @Param        type query string true "revenue, churn, demand or lead_score"
// @Param        subject_id query string false "Subject ID" format(uuid)
// @Success      200 {object} APIResponse[prediction.PredictionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /predictions/latest [get]
func (h *PredictionHandler) Latest(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q LatestQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.predictionService.Latest(c.Request.Context(), tenantID, q.Type, q.SubjectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
