package catalog

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CollectionRepository defines the interface for collection persistence
type CollectionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Collection, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Collection, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, collection *Collection) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	// FindAllForTenant supports filters: collection_id, category, active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
