package handler

import (
	"github.com/furnitureops/backend/internal/application/portal"
	"github.com/gin-gonic/gin"
)

// PortalHandler handles customer portal message threads
type PortalHandler struct {
	BaseHandler
	threadService *portal.ThreadService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(threadService *portal.ThreadService) *PortalHandler {
	return &PortalHandler{threadService: threadService}
}

// CreateThread godoc
// @ID           createThread
// @Summary      Open a message thread
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        request body portal.CreateThreadRequest true "Thread"
// @Success      201 {object} APIResponse[portal.ThreadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /threads [post]
func (h *PortalHandler) CreateThread(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req portal.CreateThreadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.CreateThread(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, thread)
}

// GetThread godoc
// @ID           getThread
// @Summary      Get a thread with its messages
// @Tags         portal
// @Produce      json
// @Param        id path string true "Thread ID" format(uuid)
// @Success      200 {object} APIResponse[portal.ThreadResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /threads/{id} [get]
func (h *PortalHandler) GetThread(c *gin.Context) {
	byID(&h.BaseHandler, c, h.threadService.GetThread)
}

// ListThreads godoc
// @ID           listThreads
// @Summary      List threads
// @Tags         portal
// @Produce      json
// @Param        search query string false "Subject"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        status query string false "open or closed"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]portal.ThreadResponse]
// @Security     BearerAuth
// @Router       /threads [get]
func (h *PortalHandler) ListThreads(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter portal.ThreadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.threadService.ListThreads(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// PostMessage godoc
// @ID           postThreadMessage
// @Summary      Post a message
// @Description  Staff may relay a customer's message by setting sender_type to customer
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        id path string true "Thread ID" format(uuid)
// @Param        request body portal.PostMessageRequest true "Message"
// @Success      201 {object} APIResponse[portal.MessageResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /threads/{id}/messages [post]
func (h *PortalHandler) PostMessage(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req portal.PostMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	msg, err := h.threadService.PostMessage(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// MarkRead godoc
// @ID           markThreadRead
// @Summary      Mark a thread read
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        id path string true "Thread ID" format(uuid)
// @Param        request body portal.MarkReadRequest true "Reader side"
// @Success      200 {object} APIResponse[portal.ThreadResponse]
// @Security     BearerAuth
// @Router       /threads/{id}/read [post]
func (h *PortalHandler) MarkRead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req portal.MarkReadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.MarkRead(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, thread)
}

// Close godoc
// @ID           closeThread
// @Summary      Close a thread
// @Tags         portal
// @Produce      json
// @Param        id path string true "Thread ID" format(uuid)
// @Success      200 {object} APIResponse[portal.ThreadResponse]
// @Security     BearerAuth
// @Router       /threads/{id}/close [post]
func (h *PortalHandler) Close(c *gin.Context) {
	byID(&h.BaseHandler, c, h.threadService.Close)
}
