package tasks

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	// FindAllForTenant supports filters: status, priority, assignee_id, related_type, related_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Task, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, task *Task) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
