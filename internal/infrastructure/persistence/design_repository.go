package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/design"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBoardRepository implements BoardRepository using GORM
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository creates a new GormBoardRepository
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	return &GormBoardRepository{db: db}
}

// FindByIDForTenant finds a board by ID within a tenant
func (r *GormBoardRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*design.Board, error) {
	var model models.BoardModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds boards matching the filter
func (r *GormBoardRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]design.Board, error) {
	var boardModels []models.BoardModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, BoardSortFields, "created_at")
	if err := query.Find(&boardModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(boardModels, (*models.BoardModel).ToDomain), nil
}

// CountForTenant counts boards matching the filter
func (r *GormBoardRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a board
func (r *GormBoardRepository) Save(ctx context.Context, board *design.Board) error {
	return translateError(r.db.WithContext(ctx).Save(models.BoardModelFromDomain(board)).Error)
}

// DeleteForTenant deletes a board within a tenant
func (r *GormBoardRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.BoardModel{}, tenantID, id)
}

func (r *GormBoardRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BoardModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormBoardRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "description")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if id, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", id)
	}
	if id, ok := filterUUID(filter, "collection_id"); ok {
		query = query.Where("collection_id = ?", id)
	}
	return query
}

var _ design.BoardRepository = (*GormBoardRepository)(nil)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByIDForTenant finds a factory review by ID within a tenant
func (r *GormReviewRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*design.FactoryReview, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds reviews matching the filter
func (r *GormReviewRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]design.FactoryReview, error) {
	var reviewModels []models.ReviewModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, ReviewSortFields, "scheduled_at")
	if err := query.Find(&reviewModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(reviewModels, (*models.ReviewModel).ToDomain), nil
}

// CountForTenant counts reviews matching the filter
func (r *GormReviewRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *design.FactoryReview) error {
	return translateError(r.db.WithContext(ctx).Save(models.ReviewModelFromDomain(review)).Error)
}

// DeleteForTenant deletes a review within a tenant
func (r *GormReviewRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.ReviewModel{}, tenantID, id)
}

func (r *GormReviewRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ReviewModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "reviewer", "location")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if id, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", id)
	}
	return query
}

var _ design.ReviewRepository = (*GormReviewRepository)(nil)
