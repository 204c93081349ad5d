package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TriggerManual is the trigger for rules fired explicitly through the API
const TriggerManual = "manual"

// ActionType is a side effect a rule can perform
type ActionType string

const (
	ActionSendSMS        ActionType = "send_sms"
	ActionSendEmail      ActionType = "send_email"
	ActionUpdateRecord   ActionType = "update_record"
	ActionCreateTask     ActionType = "create_task"
	ActionProcessPayment ActionType = "process_payment"
	ActionWebhook        ActionType = "webhook"
)

// ActionTypes lists the supported action types
var ActionTypes = []ActionType{
	ActionSendSMS,
	ActionSendEmail,
	ActionUpdateRecord,
	ActionCreateTask,
	ActionProcessPayment,
	ActionWebhook,
}

// IsValid reports whether the action type is supported
func (t ActionType) IsValid() bool {
	for _, v := range ActionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Action is one step of a rule. Config keys depend on the type.
type Action struct {
	Type   ActionType     `json:"type"`
	Config map[string]any `json:"config"`
}

// Rule is an automation rule: when TriggerEvent fires and every condition
// holds, the actions run in order.
type Rule struct {
	shared.TenantAggregateRoot
	Name            string
	Description     string
	TriggerEvent    string
	Conditions      []Condition
	Actions         []Action
	Priority        int
	Active          bool
	TriggerCount    int
	LastTriggeredAt *time.Time
}

// NewRule creates an active rule after validating its definition
func NewRule(tenantID uuid.UUID, name, description, trigger string, conditions []Condition, actions []Action, priority int) (*Rule, error) {
	r := &Rule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := r.define(name, description, trigger, conditions, actions, priority); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the rule definition
func (r *Rule) Update(name, description, trigger string, conditions []Condition, actions []Action, priority int) error {
	if err := r.define(name, description, trigger, conditions, actions, priority); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

func (r *Rule) define(name, description, trigger string, conditions []Condition, actions []Action, priority int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return shared.NewDomainError("INVALID_TRIGGER", "Rule trigger event is required")
	}
	for i, c := range conditions {
		if err := c.Validate(); err != nil {
			return shared.NewDomainError("INVALID_CONDITION", fmt.Sprintf("Condition %d: %s", i+1, err.Error()))
		}
	}
	if len(actions) == 0 {
		return shared.NewDomainError("INVALID_ACTIONS", "Rule must have at least one action")
	}
	for i, a := range actions {
		if !a.Type.IsValid() {
			return shared.NewDomainError("INVALID_ACTION",
				fmt.Sprintf("Action %d: unsupported action type %q", i+1, a.Type))
		}
		if actions[i].Config == nil {
			actions[i].Config = map[string]any{}
		}
	}
	if conditions == nil {
		conditions = []Condition{}
	}

	r.Name = name
	r.Description = description
	r.TriggerEvent = trigger
	r.Conditions = conditions
	r.Actions = actions
	r.Priority = priority
	return nil
}

// Activate enables the rule
func (r *Rule) Activate() {
	if r.Active {
		return
	}
	r.Active = true
	r.IncrementVersion()
}

// Deactivate disables the rule
func (r *Rule) Deactivate() {
	if !r.Active {
		return
	}
	r.Active = false
	r.IncrementVersion()
}

// Matches reports whether every condition holds for payload.
// A rule with no conditions always matches.
func (r *Rule) Matches(payload map[string]any) bool {
	for _, c := range r.Conditions {
		if !c.Evaluate(payload) {
			return false
		}
	}
	return true
}

// MarkTriggered records that the rule's actions ran
func (r *Rule) MarkTriggered(at time.Time) {
	r.TriggerCount++
	r.LastTriggeredAt = &at
	r.IncrementVersion()
}
