package handler

import (
	"github.com/furnitureops/backend/internal/application/orders"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orders.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orders.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Create an order
// @Description  Create a draft order. Item prices default to the product's base price.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orders.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[orders.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req orders.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.GetByID)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Order number"
// @Param        status query string false "Order status"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]orders.OrderResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter orders.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update a draft order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orders.UpdateOrderRequest true "Fields to change"
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req orders.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete a draft or cancelled order
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.orderService.Delete)
}

// Confirm godoc
// @ID           confirmOrder
// @Summary      Confirm an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Confirm)
}

// StartProduction godoc
// @ID           startOrderProduction
// @Summary      Start production
// @Description  Moves a confirmed order into production and opens one tracking record per item
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/start-production [post]
func (h *OrderHandler) StartProduction(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.StartProduction)
}

// MarkReady godoc
// @ID           markOrderReady
// @Summary      Mark an order ready
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/ready [post]
func (h *OrderHandler) MarkReady(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.MarkReady)
}

// Ship godoc
// @ID           shipOrder
// @Summary      Ship an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Ship)
}

// Deliver godoc
// @ID           deliverOrder
// @Summary      Mark an order delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Deliver)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orders.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orderService.Cancel)
}
