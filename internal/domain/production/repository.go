package production

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrackingRepository defines the interface for production tracking persistence
type TrackingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Tracking, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]Tracking, error)
	// FindAllForTenant supports filters: order_id, stage, assigned_to
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Tracking, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindActive returns every tracking row that is not completed
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Tracking, error)
	Save(ctx context.Context, tracking *Tracking) error
}
