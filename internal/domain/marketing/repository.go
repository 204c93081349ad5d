package marketing

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampaignRepository defines the interface for SMS campaign persistence
type CampaignRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SMSCampaign, error)
	// FindAllForTenant supports filters: status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SMSCampaign, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, campaign *SMSCampaign) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DeliveryRepository defines the interface for delivery log persistence
type DeliveryRepository interface {
	SaveBatch(ctx context.Context, deliveries []*Delivery) error
	// FindByCampaign supports filters: status
	FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter shared.Filter) ([]Delivery, error)
	CountByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter shared.Filter) (int64, error)
}
