package automation

import (
	"errors"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	tenantID := uuid.New()
	actions := []Action{{Type: ActionSendSMS, Config: map[string]any{"message": "hi"}}}

	t.Run("valid rule is active", func(t *testing.T) {
		r, err := NewRule(tenantID, "Notify big orders", "", "order.created",
			[]Condition{{"total", OpGreaterThan, 5000}}, actions, 10)
		require.NoError(t, err)
		assert.True(t, r.Active)
		assert.Equal(t, 10, r.Priority)
	})

	t.Run("nil conditions become empty", func(t *testing.T) {
		r, err := NewRule(tenantID, "Always", "", TriggerManual, nil, []Action{{Type: ActionWebhook}}, 0)
		require.NoError(t, err)
		assert.NotNil(t, r.Conditions)
		assert.NotNil(t, r.Actions[0].Config)
		assert.True(t, r.Matches(map[string]any{}))
	})

	t.Run("rejects unknown operator", func(t *testing.T) {
		_, err := NewRule(tenantID, "Bad", "", "order.created",
			[]Condition{{"total", "between", 1}}, actions, 0)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_CONDITION", de.Code)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		_, err := NewRule(tenantID, "Bad", "", "order.created", nil, []Action{{Type: "print_label"}}, 0)
		assert.Error(t, err)
	})

	t.Run("requires an action", func(t *testing.T) {
		_, err := NewRule(tenantID, "Bad", "", "order.created", nil, nil, 0)
		assert.Error(t, err)
	})

	t.Run("requires name and trigger", func(t *testing.T) {
		_, err := NewRule(tenantID, "", "", "order.created", nil, actions, 0)
		assert.Error(t, err)
		_, err = NewRule(tenantID, "Name", "", " ", nil, actions, 0)
		assert.Error(t, err)
	})
}

func TestRule_Matches(t *testing.T) {
	r, err := NewRule(uuid.New(), "Rush", "", "order.created", []Condition{
		{"total", OpGreaterThan, 1000},
		{"status", OpEquals, "draft"},
	}, []Action{{Type: ActionCreateTask}}, 0)
	require.NoError(t, err)

	assert.True(t, r.Matches(map[string]any{"total": 1500.0, "status": "draft"}))
	assert.False(t, r.Matches(map[string]any{"total": 1500.0, "status": "confirmed"}))
	assert.False(t, r.Matches(map[string]any{"status": "draft"}))
}

func TestRule_ActivateDeactivate(t *testing.T) {
	r, err := NewRule(uuid.New(), "Rush", "", "order.created", nil, []Action{{Type: ActionCreateTask}}, 0)
	require.NoError(t, err)

	r.Deactivate()
	assert.False(t, r.Active)
	r.Activate()
	assert.True(t, r.Active)

	r.MarkTriggered(time.Now())
	assert.Equal(t, 1, r.TriggerCount)
	assert.NotNil(t, r.LastTriggeredAt)
}

func TestExecution(t *testing.T) {
	r, err := NewRule(uuid.New(), "Rush", "", "order.created", nil, []Action{{Type: ActionCreateTask}}, 0)
	require.NoError(t, err)

	e := NewExecution(r, "order.created", 0, r.Actions[0], map[string]any{"a": 1})
	e.Fail(errors.New("boom"), 5*time.Millisecond)
	assert.Equal(t, ExecutionFailed, e.Status)
	assert.Equal(t, "boom", e.Error)
	assert.Equal(t, r.TenantID, e.TenantID)

	e2 := NewExecution(r, "order.created", 0, r.Actions[0], nil)
	e2.Succeed(map[string]any{"task_id": "x"}, time.Millisecond)
	assert.Equal(t, ExecutionSuccess, e2.Status)
	assert.Equal(t, "x", e2.Output["task_id"])
}
