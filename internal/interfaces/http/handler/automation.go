package handler

import (
	"github.com/furnitureops/backend/internal/application/automation"
	"github.com/gin-gonic/gin"
)

// AutomationHandler handles automation rules, manual triggers and the
// execution log
type AutomationHandler struct {
	BaseHandler
	ruleService *automation.RuleService
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(ruleService *automation.RuleService) *AutomationHandler {
	return &AutomationHandler{ruleService: ruleService}
}

// Create godoc
// @ID           createAutomationRule
// @Summary      Create an automation rule
// @Description  Rules start inactive
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        request body automation.CreateRuleRequest true "Rule"
// @Success      201 {object} APIResponse[automation.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation/rules [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req automation.CreateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// GetByID godoc
// @ID           getAutomationRule
// @Summary      Get an automation rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automation.RuleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation/rules/{id} [get]
func (h *AutomationHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.ruleService.GetByID)
}

// List godoc
// @ID           listAutomationRules
// @Summary      List automation rules
// @Tags         automation
// @Produce      json
// @Param        search query string false "Name"
// @Param        trigger_event query string false "Trigger event"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]automation.RuleResponse]
// @Security     BearerAuth
// @Router       /automation/rules [get]
func (h *AutomationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter automation.RuleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.ruleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateAutomationRule
// @Summary      Update an automation rule
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body automation.UpdateRuleRequest true "Fields to change"
// @Success      200 {object} APIResponse[automation.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /automation/rules/{id} [put]
func (h *AutomationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req automation.UpdateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Delete godoc
// @ID           deleteAutomationRule
// @Summary      Delete an automation rule
// @Tags         automation
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /automation/rules/{id} [delete]
func (h *AutomationHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.ruleService.Delete)
}

// Activate godoc
// @ID           activateAutomationRule
// @Summary      Activate a rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automation.RuleResponse]
// @Security     BearerAuth
// @Router       /automation/rules/{id}/activate [post]
func (h *AutomationHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.ruleService.Activate)
}

// Deactivate godoc
// @ID           deactivateAutomationRule
// @Summary      Deactivate a rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[automation.RuleResponse]
// @Security     BearerAuth
// @Router       /automation/rules/{id}/deactivate [post]
func (h *AutomationHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.ruleService.Deactivate)
}

// TestRule godoc
// @ID           testAutomationRule
// @Summary      Dry-run a rule
// @Description  Evaluates the conditions against a sample payload. No action runs.
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body automation.TestRuleRequest true "Sample payload"
// @Success      200 {object} APIResponse[automation.TestRuleResult]
// @Security     BearerAuth
// @Router       /automation/rules/{id}/test [post]
func (h *AutomationHandler) TestRule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req automation.TestRuleRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.ruleService.TestRule(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Trigger godoc
// @ID           triggerAutomation
// @Summary      Fire the manual trigger
// @Description  Runs every active rule listening on the manual trigger
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        request body automation.TriggerRequest false "Payload"
// @Success      200 {object} APIResponse[automation.ProcessResult]
// @Security     BearerAuth
// @Router       /automation/trigger [post]
func (h *AutomationHandler) Trigger(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req automation.TriggerRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.ruleService.Trigger(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListExecutions godoc
// @ID           listAutomationExecutions
// @Summary      Automation execution log
// @Tags         automation
// @Produce      json
// @Param        rule_id query string false "Rule ID" format(uuid)
// @Param        status query string false "success or failed"
// @Param        action_type query string false "Action type"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]automation.ExecutionResponse]
// @Security     BearerAuth
// @Router       /automation/executions [get]
func (h *AutomationHandler) ListExecutions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter automation.ExecutionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.ruleService.ListExecutions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}
