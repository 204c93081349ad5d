package persistence

import (
	"errors"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T, tenantID uuid.UUID, name, trigger string, priority int) *automation.Rule {
	t.Helper()
	rule, err := automation.NewRule(tenantID, name, "", trigger,
		[]automation.Condition{{Field: "total", Operator: automation.OpGreaterThan, Value: 1000}},
		[]automation.Action{{Type: automation.ActionCreateTask, Config: map[string]any{"title": "Call customer"}}},
		priority)
	require.NoError(t, err)
	return rule
}

func TestGormRuleRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormRuleRepository(db)
	tenantID := uuid.New()

	low := newTestRule(t, tenantID, "Low", "order.created", 1)
	high := newTestRule(t, tenantID, "High", "order.created", 10)
	inactive := newTestRule(t, tenantID, "Off", "order.created", 50)
	inactive.Deactivate()
	otherTrigger := newTestRule(t, tenantID, "Invoice", "invoice.paid", 5)
	for _, r := range []*automation.Rule{low, high, inactive, otherTrigger} {
		require.NoError(t, repo.Save(ctx, r))
	}

	t.Run("active by trigger in priority order", func(t *testing.T) {
		rules, err := repo.FindActiveByTrigger(ctx, tenantID, "order.created")
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "High", rules[0].Name)
		assert.Equal(t, "Low", rules[1].Name)
	})

	t.Run("definition round trips", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, high.ID)
		require.NoError(t, err)
		require.Len(t, found.Conditions, 1)
		assert.Equal(t, automation.OpGreaterThan, found.Conditions[0].Operator)
		require.Len(t, found.Actions, 1)
		assert.Equal(t, automation.ActionCreateTask, found.Actions[0].Type)
		assert.Equal(t, "Call customer", found.Actions[0].Config["title"])
	})

	t.Run("inactive stays inactive", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, inactive.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})
}

func TestGormExecutionRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormExecutionRepository(db)
	tenantID := uuid.New()
	rule := newTestRule(t, tenantID, "Notify", "order.created", 0)

	ok := automation.NewExecution(rule, "order.created", 0, rule.Actions[0], map[string]any{"total": 1500})
	ok.Succeed(map[string]any{"task_id": "abc"}, 1500*time.Millisecond)
	bad := automation.NewExecution(rule, "order.created", 0, rule.Actions[0], nil)
	bad.Fail(errors.New("no assignee"), 20*time.Millisecond)
	require.NoError(t, repo.Save(ctx, ok))
	require.NoError(t, repo.Save(ctx, bad))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = automation.ExecutionFailed
	found, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "no assignee", found[0].Error)
	assert.Equal(t, 20*time.Millisecond, found[0].Duration)

	filter = shared.DefaultFilter()
	filter.Filters["rule_id"] = rule.ID
	count, err := repo.CountForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
