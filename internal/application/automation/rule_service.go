package automation

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleService handles automation rule use cases
type RuleService struct {
	ruleRepo      automation.RuleRepository
	executionRepo automation.ExecutionRepository
	processor     *Processor
	logger        *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo automation.RuleRepository, executionRepo automation.ExecutionRepository, processor *Processor, logger *zap.Logger) *RuleService {
	return &RuleService{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
		processor:     processor,
		logger:        logger,
	}
}

// Create creates a rule. Unknown operators and action types are rejected.
func (s *RuleService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error) {
	rule, err := automation.NewRule(tenantID, req.Name, req.Description, req.TriggerEvent,
		toConditions(req.Conditions), toActions(req.Actions), req.Priority)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		rule.Deactivate()
	}
	rule.SetCreatedBy(actorID)
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("Automation rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("trigger", rule.TriggerEvent),
		zap.Int("actions", len(rule.Actions)))
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// GetByID retrieves a rule by ID
func (s *RuleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// List retrieves a page of rules
func (s *RuleService) List(ctx context.Context, tenantID uuid.UUID, filter RuleListFilter) ([]RuleResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.TriggerEvent != "" {
		domainFilter.Filters["trigger_event"] = filter.TriggerEvent
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	list, err := s.ruleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ruleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRuleResponses(list), total, nil
}

// Update replaces the provided parts of a rule definition
func (s *RuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name, description, trigger := rule.Name, rule.Description, rule.TriggerEvent
	conditions, actions, priority := rule.Conditions, rule.Actions, rule.Priority
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.TriggerEvent != nil {
		trigger = *req.TriggerEvent
	}
	if req.Conditions != nil {
		conditions = toConditions(*req.Conditions)
	}
	if req.Actions != nil {
		actions = toActions(*req.Actions)
	}
	if req.Priority != nil {
		priority = *req.Priority
	}
	if err := rule.Update(name, description, trigger, conditions, actions, priority); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// Delete deletes a rule. Its execution history is kept.
func (s *RuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.ruleRepo.DeleteForTenant(ctx, tenantID, id)
}

// Activate enables a rule
func (s *RuleService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, id, (*automation.Rule).Activate)
}

// Deactivate disables a rule
func (s *RuleService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, id, (*automation.Rule).Deactivate)
}

func (s *RuleService) toggle(ctx context.Context, tenantID, id uuid.UUID, apply func(*automation.Rule)) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	apply(rule)
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("Automation rule toggled", zap.String("rule_id", id.String()), zap.Bool("active", rule.Active))
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// Trigger fires the manual trigger
func (s *RuleService) Trigger(ctx context.Context, tenantID uuid.UUID, req TriggerRequest) (*ProcessResult, error) {
	return s.processor.Process(ctx, tenantID, automation.TriggerManual, req.Payload)
}

// TestRule dry-runs a rule's conditions
func (s *RuleService) TestRule(ctx context.Context, tenantID, id uuid.UUID, req TestRuleRequest) (*TestRuleResult, error) {
	return s.processor.TestRule(ctx, tenantID, id, req.Payload)
}

// ListExecutions retrieves a page of the execution log
func (s *RuleService) ListExecutions(ctx context.Context, tenantID uuid.UUID, filter ExecutionListFilter) ([]ExecutionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.RuleID != nil {
		domainFilter.Filters["rule_id"] = *filter.RuleID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ActionType != "" {
		domainFilter.Filters["action_type"] = filter.ActionType
	}

	list, err := s.executionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.executionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToExecutionResponses(list), total, nil
}
