package orders

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	// FindAllForTenant supports filters: status, customer_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindByCustomerSince returns orders for a customer created at or after since
	FindByCustomerSince(ctx context.Context, tenantID, customerID uuid.UUID, since time.Time) ([]Order, error)
	// FindCreatedBetween returns non-cancelled orders created in [from, to)
	FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Order, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[OrderStatus]int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithTracking saves the order and inserts its production tracking
	// rows in one transaction. Nothing is written if any insert fails.
	SaveWithTracking(ctx context.Context, order *Order, rows []*production.Tracking) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
