package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/prediction"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPredictionRepository implements prediction.Repository using GORM
type GormPredictionRepository struct {
	db *gorm.DB
}

// NewGormPredictionRepository creates a new GormPredictionRepository
func NewGormPredictionRepository(db *gorm.DB) *GormPredictionRepository {
	return &GormPredictionRepository{db: db}
}

// Save stores a prediction
func (r *GormPredictionRepository) Save(ctx context.Context, p *prediction.Prediction) error {
	return translateError(r.db.WithContext(ctx).Create(models.PredictionModelFromDomain(p)).Error)
}

// FindAllForTenant lists predictions, newest first by default
func (r *GormPredictionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]prediction.Prediction, error) {
	var predictionModels []models.PredictionModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, PredictionSortFields, "created_at")
	if err := query.Find(&predictionModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(predictionModels, (*models.PredictionModel).ToDomain), nil
}

// CountForTenant counts predictions matching the filter
func (r *GormPredictionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindLatest returns the newest prediction of a type for a subject.
// A nil subject selects tenant-wide predictions such as demand forecasts.
func (r *GormPredictionRepository) FindLatest(ctx context.Context, tenantID uuid.UUID, typ prediction.Type, subjectID *uuid.UUID) (*prediction.Prediction, error) {
	query := r.scoped(ctx, tenantID).Where("type = ?", typ)
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	} else {
		query = query.Where("subject_id IS NULL")
	}
	var model models.PredictionModel
	if err := query.Order("created_at DESC").First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormPredictionRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PredictionModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormPredictionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if t, ok := filterString(filter, "type"); ok {
		query = query.Where("type = ?", t)
	}
	if id, ok := filterUUID(filter, "subject_id"); ok {
		query = query.Where("subject_id = ?", id)
	}
	return query
}

var _ prediction.Repository = (*GormPredictionRepository)(nil)
