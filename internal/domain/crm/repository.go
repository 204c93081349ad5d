package crm

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Customer, error)
	// FindAllForTenant supports filters: status, source, tag
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	// TenantIDs lists every tenant holding at least one customer
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	// FindByCustomer returns activities newest first
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Activity, error)
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
	Save(ctx context.Context, activity *Activity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
