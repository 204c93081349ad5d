package automation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxChainDepth bounds rules whose actions raise events that trigger rules again
const maxChainDepth = 3

type depthKey struct{}

func chainDepth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// ProcessorConfig tunes action execution
type ProcessorConfig struct {
	ActionTimeout time.Duration
}

// Processor evaluates active rules for a trigger and runs their actions
type Processor struct {
	ruleRepo      automation.RuleRepository
	executionRepo automation.ExecutionRepository
	customerRepo  crm.CustomerRepository
	executors     map[automation.ActionType]actionFunc
	cfg           ProcessorConfig
	logger        *zap.Logger
	now           func() time.Time
}

// NewProcessor creates a rule processor. customerRepo may be nil, in which
// case payloads are not enriched with customer contact details.
func NewProcessor(
	ruleRepo automation.RuleRepository,
	executionRepo automation.ExecutionRepository,
	customerRepo crm.CustomerRepository,
	deps ActionDeps,
	cfg ProcessorConfig,
	logger *zap.Logger,
) *Processor {
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 30 * time.Second
	}
	return &Processor{
		ruleRepo:      ruleRepo,
		executionRepo: executionRepo,
		customerRepo:  customerRepo,
		executors:     deps.executors(),
		cfg:           cfg,
		logger:        logger.Named("automation"),
		now:           time.Now,
	}
}

// Process runs every active rule of the tenant bound to trigger, highest
// priority first. Action failures are recorded and never abort the run.
func (p *Processor) Process(ctx context.Context, tenantID uuid.UUID, trigger string, payload map[string]any) (*ProcessResult, error) {
	result := &ProcessResult{Trigger: trigger, Executions: []ExecutionResponse{}}
	if depth := chainDepth(ctx); depth >= maxChainDepth {
		p.logger.Warn("Rule chain depth exceeded, skipping trigger",
			zap.String("trigger", trigger),
			zap.Int("depth", depth))
		return result, nil
	}

	rules, err := p.ruleRepo.FindActiveByTrigger(ctx, tenantID, trigger)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return result, nil
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })

	if payload == nil {
		payload = map[string]any{}
	}
	payload = p.enrich(ctx, tenantID, payload)
	actionCtx := context.WithValue(ctx, depthKey{}, chainDepth(ctx)+1)

	for i := range rules {
		rule := &rules[i]
		result.RulesEvaluated++
		if !rule.Matches(payload) {
			continue
		}
		result.RulesMatched++
		for idx, action := range rule.Actions {
			exec := p.runAction(actionCtx, rule, trigger, idx, action, payload)
			if err := p.executionRepo.Save(ctx, exec); err != nil {
				p.logger.Error("Failed to record rule execution",
					zap.String("rule_id", rule.ID.String()),
					zap.Int("action_index", idx),
					zap.Error(err))
			}
			result.Executions = append(result.Executions, ToExecutionResponse(exec))
		}
		rule.MarkTriggered(p.now())
		if err := p.ruleRepo.Save(ctx, rule); err != nil {
			p.logger.Warn("Failed to update rule trigger count", zap.String("rule_id", rule.ID.String()), zap.Error(err))
		}
	}

	p.logger.Info("Trigger processed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("trigger", trigger),
		zap.Int("rules_evaluated", result.RulesEvaluated),
		zap.Int("rules_matched", result.RulesMatched),
		zap.Int("executions", len(result.Executions)))
	return result, nil
}

func (p *Processor) runAction(ctx context.Context, rule *automation.Rule, trigger string, idx int, action automation.Action, payload map[string]any) *automation.Execution {
	exec := automation.NewExecution(rule, trigger, idx, action, payload)
	start := p.now()

	fn, ok := p.executors[action.Type]
	if !ok {
		exec.Fail(fmt.Errorf("unsupported action type %q", action.Type), 0)
		return exec
	}

	actx, cancel := context.WithTimeout(ctx, p.cfg.ActionTimeout)
	defer cancel()
	output, err := p.safeRun(actx, fn, rule.TenantID, renderConfig(action.Config, payload), payload)
	elapsed := p.now().Sub(start)
	if err != nil {
		exec.Fail(err, elapsed)
		p.logger.Warn("Rule action failed",
			zap.String("rule_id", rule.ID.String()),
			zap.String("action", string(action.Type)),
			zap.Int("action_index", idx),
			zap.String("code", shared.ErrorCode(err)),
			zap.Error(err))
		return exec
	}
	exec.Succeed(output, elapsed)
	return exec
}

func (p *Processor) safeRun(ctx context.Context, fn actionFunc, tenantID uuid.UUID, cfg, payload map[string]any) (out map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return fn(ctx, tenantID, cfg, payload)
}

// enrich adds a "customer" object when the payload names a customer_id
func (p *Processor) enrich(ctx context.Context, tenantID uuid.UUID, payload map[string]any) map[string]any {
	if p.customerRepo == nil {
		return payload
	}
	if _, has := payload["customer"]; has {
		return payload
	}
	raw, ok := payload["customer_id"].(string)
	if !ok {
		return payload
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return payload
	}
	customer, err := p.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			p.logger.Warn("Failed to load customer for rule payload", zap.String("customer_id", raw), zap.Error(err))
		}
		return payload
	}
	enriched := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		enriched[k] = v
	}
	enriched["customer"] = map[string]any{
		"id":      customer.ID.String(),
		"name":    customer.Name,
		"email":   customer.Email,
		"phone":   customer.Phone,
		"company": customer.Company,
		"status":  string(customer.Status),
	}
	return enriched
}

// TestRule evaluates a rule's conditions against payload without running
// any action
func (p *Processor) TestRule(ctx context.Context, tenantID, ruleID uuid.UUID, payload map[string]any) (*TestRuleResult, error) {
	rule, err := p.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	result := &TestRuleResult{
		RuleID:     rule.ID,
		Matched:    true,
		Conditions: make([]ConditionResult, len(rule.Conditions)),
		Actions:    make([]string, len(rule.Actions)),
	}
	for i, c := range rule.Conditions {
		actual, found := automation.Lookup(payload, c.Field)
		passed := c.Evaluate(payload)
		result.Conditions[i] = ConditionResult{
			Field:    c.Field,
			Operator: string(c.Operator),
			Expected: c.Value,
			Actual:   actual,
			Found:    found,
			Passed:   passed,
		}
		if !passed {
			result.Matched = false
		}
	}
	for i, a := range rule.Actions {
		result.Actions[i] = string(a.Type)
	}
	return result, nil
}
