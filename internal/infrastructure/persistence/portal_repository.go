package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormThreadRepository implements ThreadRepository using GORM
type GormThreadRepository struct {
	db *gorm.DB
}

// NewGormThreadRepository creates a new GormThreadRepository
func NewGormThreadRepository(db *gorm.DB) *GormThreadRepository {
	return &GormThreadRepository{db: db}
}

// FindByIDForTenant finds a thread by ID within a tenant
func (r *GormThreadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*portal.MessageThread, error) {
	var model models.ThreadModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists threads, most recently active first by default
func (r *GormThreadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]portal.MessageThread, error) {
	var threadModels []models.ThreadModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, ThreadSortFields, "last_message_at")
	if err := query.Find(&threadModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(threadModels, (*models.ThreadModel).ToDomain), nil
}

// CountForTenant counts threads matching the filter
func (r *GormThreadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindMessages returns a thread's messages oldest first
func (r *GormThreadRepository) FindMessages(ctx context.Context, tenantID, threadID uuid.UUID) ([]portal.Message, error) {
	var messageModels []models.MessageModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messageModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(messageModels, (*models.MessageModel).ToDomain), nil
}

// Save creates or updates a thread
func (r *GormThreadRepository) Save(ctx context.Context, thread *portal.MessageThread) error {
	return translateError(r.db.WithContext(ctx).Save(models.ThreadModelFromDomain(thread)).Error)
}

// SaveWithMessage persists the thread and appends msg in one transaction
func (r *GormThreadRepository) SaveWithMessage(ctx context.Context, thread *portal.MessageThread, msg *portal.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.ThreadModelFromDomain(thread)).Error; err != nil {
			return translateError(err)
		}
		return translateError(tx.Create(models.MessageModelFromDomain(msg)).Error)
	})
}

func (r *GormThreadRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ThreadModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormThreadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "subject")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if id, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", id)
	}
	if id, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", id)
	}
	return query
}

var _ portal.ThreadRepository = (*GormThreadRepository)(nil)
