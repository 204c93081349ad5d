package automation

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExecutionStatus is the outcome of one action run
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailed  ExecutionStatus = "failed"
)

// Execution records the outcome of a single action of a triggered rule
type Execution struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	RuleID       uuid.UUID
	RuleName     string
	TriggerEvent string
	ActionIndex  int
	ActionType   ActionType
	Status       ExecutionStatus
	Error        string
	Output       map[string]any
	Payload      map[string]any
	Duration     time.Duration
}

// NewExecution creates an execution record
func NewExecution(rule *Rule, trigger string, index int, action Action, payload map[string]any) *Execution {
	return &Execution{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     rule.TenantID,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		TriggerEvent: trigger,
		ActionIndex:  index,
		ActionType:   action.Type,
		Payload:      payload,
		Output:       map[string]any{},
	}
}

// Succeed marks the action as successful
func (e *Execution) Succeed(output map[string]any, d time.Duration) {
	e.Status = ExecutionSuccess
	if output != nil {
		e.Output = output
	}
	e.Duration = d
}

// Fail marks the action as failed
func (e *Execution) Fail(err error, d time.Duration) {
	e.Status = ExecutionFailed
	e.Error = err.Error()
	e.Duration = d
}
