package automation

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/google/uuid"
)

// ConditionRequest is one rule condition
type ConditionRequest struct {
	Field    string `json:"field" binding:"required,max=200"`
	Operator string `json:"operator" binding:"required"`
	Value    any    `json:"value"`
}

// ActionRequest is one rule action
type ActionRequest struct {
	Type   string         `json:"type" binding:"required"`
	Config map[string]any `json:"config"`
}

// CreateRuleRequest represents a request to create an automation rule
type CreateRuleRequest struct {
	Name         string             `json:"name" binding:"required,min=1,max=200"`
	Description  string             `json:"description" binding:"max=2000"`
	TriggerEvent string             `json:"trigger_event" binding:"required,max=100"`
	Conditions   []ConditionRequest `json:"conditions" binding:"dive"`
	Actions      []ActionRequest    `json:"actions" binding:"required,min=1,dive"`
	Priority     int                `json:"priority"`
	Active       *bool              `json:"active"`
}

// UpdateRuleRequest replaces a rule definition. Omitted fields keep their value.
type UpdateRuleRequest struct {
	Name         *string             `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string             `json:"description" binding:"omitempty,max=2000"`
	TriggerEvent *string             `json:"trigger_event" binding:"omitempty,max=100"`
	Conditions   *[]ConditionRequest `json:"conditions" binding:"omitempty,dive"`
	Actions      *[]ActionRequest    `json:"actions" binding:"omitempty,min=1,dive"`
	Priority     *int                `json:"priority"`
}

// RuleListFilter represents filter options for the rule list
type RuleListFilter struct {
	Search       string `form:"search"`
	TriggerEvent string `form:"trigger_event"`
	Active       *bool  `form:"active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExecutionListFilter represents filter options for the execution log
type ExecutionListFilter struct {
	RuleID     *uuid.UUID `form:"rule_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=success failed"`
	ActionType string     `form:"action_type"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TriggerRequest fires the manual trigger with a payload
type TriggerRequest struct {
	Payload map[string]any `json:"payload"`
}

// TestRuleRequest evaluates a rule against a sample payload
type TestRuleRequest struct {
	Payload map[string]any `json:"payload"`
}

// RuleResponse represents an automation rule in API responses
type RuleResponse struct {
	ID              uuid.UUID              `json:"id"`
	TenantID        uuid.UUID              `json:"tenant_id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	TriggerEvent    string                 `json:"trigger_event"`
	Conditions      []automation.Condition `json:"conditions"`
	Actions         []automation.Action    `json:"actions"`
	Priority        int                    `json:"priority"`
	Active          bool                   `json:"active"`
	TriggerCount    int                    `json:"trigger_count"`
	LastTriggeredAt *time.Time             `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// ExecutionResponse represents one action run
type ExecutionResponse struct {
	ID           uuid.UUID      `json:"id"`
	RuleID       uuid.UUID      `json:"rule_id"`
	RuleName     string         `json:"rule_name"`
	TriggerEvent string         `json:"trigger_event"`
	ActionIndex  int            `json:"action_index"`
	ActionType   string         `json:"action_type"`
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	Output       map[string]any `json:"output,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ProcessResult summarizes one trigger
type ProcessResult struct {
	Trigger        string              `json:"trigger"`
	RulesEvaluated int                 `json:"rules_evaluated"`
	RulesMatched   int                 `json:"rules_matched"`
	Executions     []ExecutionResponse `json:"executions"`
}

// ConditionResult is the outcome of one condition in a dry run
type ConditionResult struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Found    bool   `json:"found"`
	Passed   bool   `json:"passed"`
}

// TestRuleResult is the outcome of a dry run
type TestRuleResult struct {
	RuleID     uuid.UUID         `json:"rule_id"`
	Matched    bool              `json:"matched"`
	Conditions []ConditionResult `json:"conditions"`
	Actions    []string          `json:"actions"`
}

// ToRuleResponse converts a domain Rule to RuleResponse
func ToRuleResponse(r *automation.Rule) RuleResponse {
	return RuleResponse{
		ID:              r.ID,
		TenantID:        r.TenantID,
		Name:            r.Name,
		Description:     r.Description,
		TriggerEvent:    r.TriggerEvent,
		Conditions:      r.Conditions,
		Actions:         r.Actions,
		Priority:        r.Priority,
		Active:          r.Active,
		TriggerCount:    r.TriggerCount,
		LastTriggeredAt: r.LastTriggeredAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

// ToRuleResponses converts a slice of domain Rules
func ToRuleResponses(list []automation.Rule) []RuleResponse {
	responses := make([]RuleResponse, len(list))
	for i := range list {
		responses[i] = ToRuleResponse(&list[i])
	}
	return responses
}

// ToExecutionResponse converts a domain Execution
func ToExecutionResponse(e *automation.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:           e.ID,
		RuleID:       e.RuleID,
		RuleName:     e.RuleName,
		TriggerEvent: e.TriggerEvent,
		ActionIndex:  e.ActionIndex,
		ActionType:   string(e.ActionType),
		Status:       string(e.Status),
		Error:        e.Error,
		Output:       e.Output,
		DurationMs:   e.Duration.Milliseconds(),
		CreatedAt:    e.CreatedAt,
	}
}

// ToExecutionResponses converts a slice of domain Executions
func ToExecutionResponses(list []automation.Execution) []ExecutionResponse {
	responses := make([]ExecutionResponse, len(list))
	for i := range list {
		responses[i] = ToExecutionResponse(&list[i])
	}
	return responses
}

func toConditions(reqs []ConditionRequest) []automation.Condition {
	out := make([]automation.Condition, len(reqs))
	for i, c := range reqs {
		out[i] = automation.Condition{Field: c.Field, Operator: automation.Operator(c.Operator), Value: c.Value}
	}
	return out
}

func toActions(reqs []ActionRequest) []automation.Action {
	out := make([]automation.Action, len(reqs))
	for i, a := range reqs {
		out[i] = automation.Action{Type: automation.ActionType(a.Type), Config: a.Config}
	}
	return out
}
