package handler

import (
	"github.com/furnitureops/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer and activity endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *crm.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *crm.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Description  Create a lead or customer record
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body crm.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[crm.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req crm.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[crm.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Name, email or company"
// @Param        status query string false "lead, active, inactive or churned"
// @Param        source query string false "Acquisition source"
// @Param        tag query string false "Tag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "asc or desc" default(desc)
// @Success      200 {object} APIResponse[[]crm.CustomerResponse]
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter crm.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body crm.UpdateCustomerRequest true "Fields to change"
// @Success      200 {object} APIResponse[crm.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req crm.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordContact godoc
// @ID           recordCustomerContact
// @Summary      Record a contact
// @Description  Stamp the last contact time. An empty body means now.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body crm.RecordContactRequest false "Contact time"
// @Success      200 {object} APIResponse[crm.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/contact [post]
func (h *CustomerHandler) RecordContact(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req crm.RecordContactRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	customer, err := h.customerService.RecordContact(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// LogActivity godoc
// @ID           logCustomerActivity
// @Summary      Log an activity
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body crm.CreateActivityRequest true "Activity"
// @Success      201 {object} APIResponse[crm.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/activities [post]
func (h *CustomerHandler) LogActivity(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	customerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req crm.CreateActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	activity, err := h.customerService.LogActivity(c.Request.Context(), tenantID, userID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, activity)
}

// ListActivities godoc
// @ID           listCustomerActivities
// @Summary      List a customer's activities
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        type query string false "call, email, meeting, note or task"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]crm.ActivityResponse]
// @Security     BearerAuth
// @Router       /customers/{id}/activities [get]
func (h *CustomerHandler) ListActivities(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var filter crm.ActivityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	activities, total, err := h.customerService.ListActivities(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// DeleteActivity godoc
// @ID           deleteCustomerActivity
// @Summary      Delete an activity
// @Tags         customers
// @Param        activityId path string true "Activity ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activities/{activityId} [delete]
func (h *CustomerHandler) DeleteActivity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "activityId")
	if !ok {
		return
	}

	if err := h.customerService.DeleteActivity(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
