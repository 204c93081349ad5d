package automation

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines the interface for automation rule persistence
type RuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Rule, error)
	// FindActiveByTrigger returns active rules for a trigger ordered by priority descending
	FindActiveByTrigger(ctx context.Context, tenantID uuid.UUID, trigger string) ([]Rule, error)
	// FindAllForTenant supports filters: trigger_event, active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Rule, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, rule *Rule) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ExecutionRepository defines the interface for execution log persistence
type ExecutionRepository interface {
	Save(ctx context.Context, execution *Execution) error
	// FindAllForTenant supports filters: rule_id, status, action_type
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Execution, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
