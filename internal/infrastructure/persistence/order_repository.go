package persistence

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*orders.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds orders matching the filter
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]orders.Order, error) {
	var orderModels []models.OrderModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, OrderSortFields, "created_at")
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(orderModels, (*models.OrderModel).ToDomain), nil
}

// CountForTenant counts orders matching the filter
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindByCustomerSince returns a customer's orders created at or after since
func (r *GormOrderRepository) FindByCustomerSince(ctx context.Context, tenantID, customerID uuid.UUID, since time.Time) ([]orders.Order, error) {
	var orderModels []models.OrderModel
	err := r.scoped(ctx, tenantID).
		Where("customer_id = ? AND created_at >= ?", customerID, since).
		Order("created_at ASC").
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(orderModels, (*models.OrderModel).ToDomain), nil
}

// FindCreatedBetween returns non-cancelled orders created in [from, to)
func (r *GormOrderRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]orders.Order, error) {
	var orderModels []models.OrderModel
	err := r.scoped(ctx, tenantID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status <> ?", orders.OrderStatusCancelled).
		Order("created_at ASC").
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(orderModels, (*models.OrderModel).ToDomain), nil
}

// CountByStatus returns the number of orders per status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[orders.OrderStatus]int64, error) {
	var rows []struct {
		Status orders.OrderStatus
		Count  int64
	}
	err := r.scoped(ctx, tenantID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[orders.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *orders.Order) error {
	return translateError(r.db.WithContext(ctx).Save(models.OrderModelFromDomain(order)).Error)
}

// SaveWithTracking saves the order and inserts its tracking rows in one
// transaction. A second start for the same order hits the
// (order_id, item_index) unique index and rolls everything back.
func (r *GormOrderRepository) SaveWithTracking(ctx context.Context, order *orders.Order, rows []*production.Tracking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Create(models.TrackingModelFromDomain(row)).Error; err != nil {
				return translateError(err)
			}
		}
		return translateError(tx.Save(models.OrderModelFromDomain(order)).Error)
	})
}

// DeleteForTenant deletes an order within a tenant
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.OrderModel{}, tenantID, id)
}

func (r *GormOrderRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "order_number", "notes")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if id, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", id)
	}
	return query
}

var _ orders.OrderRepository = (*GormOrderRepository)(nil)
