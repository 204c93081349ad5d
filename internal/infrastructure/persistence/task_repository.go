package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForTenant finds a task by ID within a tenant
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tasks.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds tasks matching the filter
func (r *GormTaskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tasks.Task, error) {
	var taskModels []models.TaskModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, TaskSortFields, "created_at")
	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(taskModels, (*models.TaskModel).ToDomain), nil
}

// CountForTenant counts tasks matching the filter
func (r *GormTaskRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *tasks.Task) error {
	return translateError(r.db.WithContext(ctx).Save(models.TaskModelFromDomain(task)).Error)
}

// DeleteForTenant deletes a task within a tenant
func (r *GormTaskRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.TaskModel{}, tenantID, id)
}

func (r *GormTaskRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TaskModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "title", "description")
	for _, key := range []string{"status", "priority", "related_type"} {
		if v, ok := filterString(filter, key); ok {
			query = query.Where(key+" = ?", v)
		}
	}
	for _, key := range []string{"assignee_id", "related_id"} {
		if id, ok := filterUUID(filter, key); ok {
			query = query.Where(key+" = ?", id)
		}
	}
	return query
}

var _ tasks.TaskRepository = (*GormTaskRepository)(nil)
