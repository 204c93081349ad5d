package persistence

import (
	"context"
	"strings"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionRepository implements CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByIDForTenant finds a collection by ID within a tenant
func (r *GormCollectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds collections matching the filter
func (r *GormCollectionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Collection, error) {
	var collectionModels []models.CollectionModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, CollectionSortFields, "created_at")
	if err := query.Find(&collectionModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(collectionModels, (*models.CollectionModel).ToDomain), nil
}

// CountForTenant counts collections matching the filter
func (r *GormCollectionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	return translateError(r.db.WithContext(ctx).Save(models.CollectionModelFromDomain(collection)).Error)
}

// DeleteForTenant deletes a collection within a tenant
func (r *GormCollectionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.CollectionModel{}, tenantID, id)
}

func (r *GormCollectionRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CollectionModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormCollectionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "description", "season")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if season, ok := filterString(filter, "season"); ok {
		query = query.Where("season = ?", season)
	}
	return query
}

var _ catalog.CollectionRepository = (*GormCollectionRepository)(nil)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by SKU within a tenant
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds products matching the filter
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, ProductSortFields, "created_at")
	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(productModels, (*models.ProductModel).ToDomain), nil
}

// CountForTenant counts products matching the filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// ExistsBySKU checks whether a SKU is taken within a tenant
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := r.scoped(ctx, tenantID).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error)
}

// DeleteForTenant deletes a product within a tenant
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.ProductModel{}, tenantID, id)
}

func (r *GormProductRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "sku", "name", "material")
	if id, ok := filterUUID(filter, "collection_id"); ok {
		query = query.Where("collection_id = ?", id)
	}
	if category, ok := filterString(filter, "category"); ok {
		query = query.Where("category = ?", category)
	}
	if active, ok := filterBool(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
