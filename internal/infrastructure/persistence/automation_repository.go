package persistence

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleRepository implements RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByIDForTenant finds a rule by ID within a tenant
func (r *GormRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*automation.Rule, error) {
	var model models.RuleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActiveByTrigger returns active rules for a trigger, highest priority first.
// Equal priorities run in creation order.
func (r *GormRuleRepository) FindActiveByTrigger(ctx context.Context, tenantID uuid.UUID, trigger string) ([]automation.Rule, error) {
	var ruleModels []models.RuleModel
	err := r.scoped(ctx, tenantID).
		Where("trigger_event = ? AND active = ?", trigger, true).
		Order("priority DESC").
		Order("created_at ASC").
		Find(&ruleModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(ruleModels, (*models.RuleModel).ToDomain), nil
}

// FindAllForTenant finds rules matching the filter
func (r *GormRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Rule, error) {
	var ruleModels []models.RuleModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, RuleSortFields, "created_at")
	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(ruleModels, (*models.RuleModel).ToDomain), nil
}

// CountForTenant counts rules matching the filter
func (r *GormRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	return translateError(r.db.WithContext(ctx).Save(models.RuleModelFromDomain(rule)).Error)
}

// DeleteForTenant deletes a rule within a tenant
func (r *GormRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.RuleModel{}, tenantID, id)
}

func (r *GormRuleRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.RuleModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "description")
	if trigger, ok := filterString(filter, "trigger_event"); ok {
		query = query.Where("trigger_event = ?", trigger)
	}
	if active, ok := filterBool(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ automation.RuleRepository = (*GormRuleRepository)(nil)

// GormExecutionRepository implements ExecutionRepository using GORM
type GormExecutionRepository struct {
	db *gorm.DB
}

// NewGormExecutionRepository creates a new GormExecutionRepository
func NewGormExecutionRepository(db *gorm.DB) *GormExecutionRepository {
	return &GormExecutionRepository{db: db}
}

// Save appends an execution log entry
func (r *GormExecutionRepository) Save(ctx context.Context, execution *automation.Execution) error {
	return translateError(r.db.WithContext(ctx).Create(models.ExecutionModelFromDomain(execution)).Error)
}

// FindAllForTenant lists executions, newest first by default
func (r *GormExecutionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Execution, error) {
	var executionModels []models.ExecutionModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, ExecutionSortFields, "created_at")
	if err := query.Find(&executionModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(executionModels, (*models.ExecutionModel).ToDomain), nil
}

// CountForTenant counts executions matching the filter
func (r *GormExecutionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

func (r *GormExecutionRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ExecutionModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormExecutionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if id, ok := filterUUID(filter, "rule_id"); ok {
		query = query.Where("rule_id = ?", id)
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if t, ok := filterString(filter, "action_type"); ok {
		query = query.Where("action_type = ?", t)
	}
	return query
}

var _ automation.ExecutionRepository = (*GormExecutionRepository)(nil)
