package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/marketing"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// deliveryBatchSize bounds the rows per INSERT when recording campaign results
const deliveryBatchSize = 200

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByIDForTenant finds a campaign by ID within a tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.SMSCampaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds campaigns matching the filter
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]marketing.SMSCampaign, error) {
	var campaignModels []models.CampaignModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, CampaignSortFields, "created_at")
	if err := query.Find(&campaignModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(campaignModels, (*models.CampaignModel).ToDomain), nil
}

// CountForTenant counts campaigns matching the filter
func (r *GormCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *marketing.SMSCampaign) error {
	return translateError(r.db.WithContext(ctx).Save(models.CampaignModelFromDomain(campaign)).Error)
}

// DeleteForTenant deletes a campaign within a tenant
func (r *GormCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.CampaignModel{}, tenantID, id)
}

func (r *GormCampaignRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CampaignModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "message")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ marketing.CampaignRepository = (*GormCampaignRepository)(nil)

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// SaveBatch inserts delivery results in batches
func (r *GormDeliveryRepository) SaveBatch(ctx context.Context, deliveries []*marketing.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	rows := make([]*models.DeliveryModel, len(deliveries))
	for i, d := range deliveries {
		rows[i] = models.DeliveryModelFromDomain(d)
	}
	return translateError(r.db.WithContext(ctx).CreateInBatches(rows, deliveryBatchSize).Error)
}

// FindByCampaign lists a campaign's deliveries
func (r *GormDeliveryRepository) FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter shared.Filter) ([]marketing.Delivery, error) {
	var deliveryModels []models.DeliveryModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID, campaignID), filter), filter, DeliverySortFields, "created_at")
	if err := query.Find(&deliveryModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(deliveryModels, (*models.DeliveryModel).ToDomain), nil
}

// CountByCampaign counts a campaign's deliveries matching the filter
func (r *GormDeliveryRepository) CountByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID, campaignID), filter).Count(&count).Error
	return count, err
}

func (r *GormDeliveryRepository) scoped(ctx context.Context, tenantID, campaignID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DeliveryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("campaign_id = ?", campaignID)
}

func (r *GormDeliveryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ marketing.DeliveryRepository = (*GormDeliveryRepository)(nil)
