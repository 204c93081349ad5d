package automation

import (
	"context"
	"testing"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRuleService() (*RuleService, *testutil.MockRuleRepository, *testutil.MockExecutionRepository) {
	rules := new(testutil.MockRuleRepository)
	executions := new(testutil.MockExecutionRepository)
	proc := NewProcessor(rules, executions, nil, ActionDeps{}, ProcessorConfig{}, zap.NewNop())
	return NewRuleService(rules, executions, proc, zap.NewNop()), rules, executions
}

func TestRuleService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("inactive on request", func(t *testing.T) {
		svc, rules, _ := setupRuleService()
		rules.On("Save", ctx, mock.AnythingOfType("*automation.Rule")).Return(nil)
		active := false
		resp, err := svc.Create(ctx, tenantID, actorID, CreateRuleRequest{
			Name:         "Overdue reminder",
			TriggerEvent: "invoice.overdue",
			Conditions:   []ConditionRequest{{Field: "days_past_due", Operator: "greater_than", Value: 14}},
			Actions:      []ActionRequest{{Type: "send_email", Config: map[string]any{"subject": "Invoice {{invoice_number}}"}}},
			Priority:     5,
			Active:       &active,
		})
		require.NoError(t, err)
		assert.False(t, resp.Active)
		assert.Equal(t, 5, resp.Priority)
	})

	t.Run("unknown operator", func(t *testing.T) {
		svc, rules, _ := setupRuleService()
		_, err := svc.Create(ctx, tenantID, actorID, CreateRuleRequest{
			Name:         "Bad",
			TriggerEvent: "manual",
			Conditions:   []ConditionRequest{{Field: "x", Operator: "matches", Value: "y"}},
			Actions:      []ActionRequest{{Type: "webhook"}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONDITION", domainErr.Code)
		rules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown action", func(t *testing.T) {
		svc, _, _ := setupRuleService()
		_, err := svc.Create(ctx, tenantID, actorID, CreateRuleRequest{
			Name:         "Bad",
			TriggerEvent: "manual",
			Actions:      []ActionRequest{{Type: "fax"}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACTION", domainErr.Code)
	})
}

func TestRuleService_Toggle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, rules, _ := setupRuleService()
	rule, err := automation.NewRule(tenantID, "r", "", "manual", nil,
		[]automation.Action{{Type: automation.ActionWebhook}}, 0)
	require.NoError(t, err)
	rules.On("FindByIDForTenant", ctx, tenantID, rule.ID).Return(rule, nil)
	rules.On("Save", ctx, rule).Return(nil)

	resp, err := svc.Deactivate(ctx, tenantID, rule.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	resp, err = svc.Activate(ctx, tenantID, rule.ID)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestRuleService_Update_KeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, rules, _ := setupRuleService()
	rule, err := automation.NewRule(tenantID, "r", "desc", "order.created",
		[]automation.Condition{{Field: "total", Operator: automation.OpGreaterThan, Value: 10}},
		[]automation.Action{{Type: automation.ActionWebhook}}, 3)
	require.NoError(t, err)
	rules.On("FindByIDForTenant", ctx, tenantID, rule.ID).Return(rule, nil)
	rules.On("Save", ctx, rule).Return(nil)

	name := "renamed"
	resp, err := svc.Update(ctx, tenantID, rule.ID, UpdateRuleRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", resp.Name)
	assert.Equal(t, "order.created", resp.TriggerEvent)
	assert.Len(t, resp.Conditions, 1)
	assert.Equal(t, 3, resp.Priority)
}

func TestRuleService_Trigger_Manual(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, rules, _ := setupRuleService()
	rules.On("FindActiveByTrigger", ctx, tenantID, automation.TriggerManual).Return([]automation.Rule{}, nil)

	result, err := svc.Trigger(ctx, tenantID, TriggerRequest{Payload: map[string]any{"a": 1}})
	require.NoError(t, err)
	assert.Equal(t, "manual", result.Trigger)
	assert.Empty(t, result.Executions)
}

func TestRuleService_ListExecutions(t *testing.T) {
	ctx := context.Background()
	tenantID, ruleID := uuid.New(), uuid.New()
	svc, _, executions := setupRuleService()
	executions.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["rule_id"] == ruleID && f.Filters["status"] == "failed"
	})).Return([]automation.Execution{}, nil)
	executions.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)

	list, total, err := svc.ListExecutions(ctx, tenantID, ExecutionListFilter{RuleID: &ruleID, Status: "failed"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}
