package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrackingRepository implements TrackingRepository using GORM
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GormTrackingRepository
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// FindByIDForTenant finds a tracking row by ID within a tenant
func (r *GormTrackingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Tracking, error) {
	var model models.TrackingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByOrder returns an order's tracking rows in item order
func (r *GormTrackingRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]production.Tracking, error) {
	var trackingModels []models.TrackingModel
	err := r.scoped(ctx, tenantID).
		Where("order_id = ?", orderID).
		Order("item_index ASC").
		Find(&trackingModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(trackingModels, (*models.TrackingModel).ToDomain), nil
}

// FindAllForTenant finds tracking rows matching the filter
func (r *GormTrackingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.Tracking, error) {
	var trackingModels []models.TrackingModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, TrackingSortFields, "created_at")
	if err := query.Find(&trackingModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(trackingModels, (*models.TrackingModel).ToDomain), nil
}

// CountForTenant counts tracking rows matching the filter
func (r *GormTrackingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindActive returns every tracking row that has not completed
func (r *GormTrackingRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]production.Tracking, error) {
	var trackingModels []models.TrackingModel
	err := r.scoped(ctx, tenantID).
		Where("stage <> ?", production.StageCompleted).
		Order("stage_entered_at ASC").
		Find(&trackingModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(trackingModels, (*models.TrackingModel).ToDomain), nil
}

// Save creates or updates a tracking row
func (r *GormTrackingRepository) Save(ctx context.Context, tracking *production.Tracking) error {
	return translateError(r.db.WithContext(ctx).Save(models.TrackingModelFromDomain(tracking)).Error)
}


func (r *GormTrackingRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TrackingModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormTrackingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "product_name", "assigned_to")
	if id, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", id)
	}
	if stage, ok := filterString(filter, "stage"); ok {
		query = query.Where("stage = ?", stage)
	}
	if who, ok := filterString(filter, "assigned_to"); ok {
		query = query.Where("assigned_to = ?", who)
	}
	return query
}

var _ production.TrackingRepository = (*GormTrackingRepository)(nil)
