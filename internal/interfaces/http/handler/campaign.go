package handler

import (
	"github.com/furnitureops/backend/internal/application/marketing"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles SMS campaign endpoints
type CampaignHandler struct {
	BaseHandler
	campaignService *marketing.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *marketing.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create godoc
// @ID           createCampaign
// @Summary      Create an SMS campaign
// @Description  Recipients are customer IDs, raw phone numbers or both
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body marketing.CreateCampaignRequest true "Campaign"
// @Success      201 {object} APIResponse[marketing.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req marketing.CreateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, campaign)
}

// GetByID godoc
// @ID           getCampaign
// @Summary      Get a campaign
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[marketing.CampaignResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.campaignService.GetByID)
}

// List godoc
// @ID           listCampaigns
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Param        search query string false "Name"
// @Param        status query string false "draft, sending, completed or failed"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]marketing.CampaignResponse]
// @Security     BearerAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter marketing.CampaignListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.campaignService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCampaign
// @Summary      Update a draft campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body marketing.UpdateCampaignRequest true "Fields to change"
// @Success      200 {object} APIResponse[marketing.CampaignResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req marketing.UpdateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaign)
}

// Delete godoc
// @ID           deleteCampaign
// @Summary      Delete a campaign that is not sending
// @Tags         campaigns
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.campaignService.Delete)
}

// Send godoc
// @ID           sendCampaign
// @Summary      Send a campaign
// @Description  Delivers in parallel chunks and returns the final tallies
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[marketing.CampaignResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/send [post]
func (h *CampaignHandler) Send(c *gin.Context) {
	byID(&h.BaseHandler, c, h.campaignService.Send)
}

// ListDeliveries godoc
// @ID           listCampaignDeliveries
// @Summary      Delivery log of a campaign
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        status query string false "sent or failed"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]marketing.DeliveryResponse]
// @Security     BearerAuth
// @Router       /campaigns/{id}/deliveries [get]
func (h *CampaignHandler) ListDeliveries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var filter marketing.DeliveryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.campaignService.ListDeliveries(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}
