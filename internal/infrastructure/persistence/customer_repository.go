package persistence

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several customers at once; unknown IDs are skipped
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]crm.Customer, error) {
	if len(ids) == 0 {
		return []crm.Customer{}, nil
	}
	var customerModels []models.CustomerModel
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id IN ?", ids).
		Find(&customerModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(customerModels, (*models.CustomerModel).ToDomain), nil
}

// FindAllForTenant finds customers matching the filter
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Customer, error) {
	var customerModels []models.CustomerModel
	filter.OrderBy = customerSortColumn(filter.OrderBy)
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, CustomerSortFields, "created_at")
	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(customerModels, (*models.CustomerModel).ToDomain), nil
}

// CountForTenant counts customers matching the filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// ExistsByEmail checks for a customer with the email, ignoring case
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.scoped(ctx, tenantID).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// TenantIDs lists every tenant holding at least one customer
func (r *GormCustomerRepository) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *crm.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error)
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.CustomerModel{}, tenantID, id)
}

func (r *GormCustomerRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CustomerModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "client_name", "email", "phone", "company")
	for key := range filter.Filters {
		switch key {
		case "status", "source":
			if v, ok := filterString(filter, key); ok {
				query = query.Where(key+" = ?", v)
			}
		case "tag":
			if v, ok := filterString(filter, key); ok {
				query = jsonArrayContains(query, "tags", v)
			}
		}
	}
	return query
}

// customerSortColumn maps the API field name onto the client_name column.
func customerSortColumn(field string) string {
	if strings.TrimSpace(field) == "name" {
		return "client_name"
	}
	return field
}

// jsonArrayContains filters rows whose JSON array column holds value.
func jsonArrayContains(query *gorm.DB, column, value string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		encoded, _ := json.Marshal([]string{value})
		return query.Where(column+" @> ?::jsonb", string(encoded))
	}
	return query.Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value = ?)", value)
}

var _ crm.CustomerRepository = (*GormCustomerRepository)(nil)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByIDForTenant finds an activity by ID within a tenant
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists a customer's activities, newest first by default
func (r *GormActivityRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]crm.Activity, error) {
	var activityModels []models.ActivityModel
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("customer_id = ?", customerID)
	if t, ok := filterString(filter, "type"); ok {
		query = query.Where("type = ?", t)
	}
	if err := paginate(query, filter, ActivitySortFields, "occurred_at").Find(&activityModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(activityModels, (*models.ActivityModel).ToDomain), nil
}

// CountByCustomer counts a customer's activities
func (r *GormActivityRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityModel{}).Scopes(tenant.Scope(tenantID)).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *crm.Activity) error {
	return translateError(r.db.WithContext(ctx).Save(models.ActivityModelFromDomain(activity)).Error)
}

// DeleteForTenant deletes an activity within a tenant
func (r *GormActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.ActivityModel{}, tenantID, id)
}

var _ crm.ActivityRepository = (*GormActivityRepository)(nil)
