// Package tenant provides multi-tenant database scoping for GORM.
//
// Repositories apply Scope with the tenant from the authenticated request so a
// query can never return another tenant's rows:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&orders)
//
// TenantDB resolves the tenant from the request context instead, for code paths
// that only carry a context.
package tenant

import (
	"context"
	"errors"

	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// Scope applies tenant filtering to GORM queries. A nil tenant matches nothing.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantDB wraps GORM DB with tenant scoping taken from the request context
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB creates a new TenantDB
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// FromContext parses the tenant ID the auth middleware stored on ctx.
func FromContext(ctx context.Context) (uuid.UUID, error) {
	raw := logger.GetTenantID(ctx)
	if raw == "" {
		return uuid.Nil, ErrTenantIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTenantID
	}
	return id, nil
}

// WithContext returns a GORM DB scoped to the tenant from context.
// When the context carries no valid tenant the returned DB fails every operation.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tenantID, err := FromContext(ctx)
	db := t.db.WithContext(ctx)
	if err != nil {
		_ = db.AddError(err)
		return db
	}
	return db.Scopes(Scope(tenantID))
}

// ForTenant returns a GORM DB scoped to an explicit tenant.
func (t *TenantDB) ForTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return t.db.WithContext(ctx).Scopes(Scope(tenantID))
}

// Unscoped returns the underlying DB without tenant scoping.
// Only cross-tenant system jobs such as the overdue sweep should use it.
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}
