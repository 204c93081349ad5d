package design

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BoardRepository defines the interface for design board persistence
type BoardRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Board, error)
	// FindAllForTenant supports filters: customer_id, collection_id, status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Board, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, board *Board) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ReviewRepository defines the interface for factory review persistence
type ReviewRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FactoryReview, error)
	// FindAllForTenant supports filters: order_id, status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FactoryReview, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, review *FactoryReview) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
