package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRow holds the identity columns shared by every table. Append-only
// rows (messages, executions, predictions, deliveries) embed it directly.
type TenantRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *TenantRow) loadEntity(e *shared.BaseEntity) {
	e.ID, e.CreatedAt, e.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
}

func (m *TenantRow) storeEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// RootRow is embedded by aggregate tables. Version backs optimistic locking;
// CreatedBy is null for rows written by automation or scheduler jobs.
type RootRow struct {
	TenantRow
	Version   int        `gorm:"not null;default:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func (m *RootRow) loadRoot(r *shared.TenantAggregateRoot) {
	m.loadEntity(&r.BaseEntity)
	r.Version = m.Version
	r.TenantID = m.TenantID
	r.CreatedBy = m.CreatedBy
}

func (m *RootRow) storeRoot(r shared.TenantAggregateRoot) {
	m.storeEntity(r.BaseEntity)
	m.Version = r.Version
	m.TenantID = r.TenantID
	m.CreatedBy = r.CreatedBy
}

// All lists every persistence model, parents before children.
func All() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&ActivityModel{},
		&CollectionModel{},
		&ProductModel{},
		&OrderModel{},
		&TrackingModel{},
		&InvoiceModel{},
		&PaymentModel{},
		&TaskModel{},
		&ThreadModel{},
		&MessageModel{},
		&BoardModel{},
		&ReviewModel{},
		&RuleModel{},
		&ExecutionModel{},
		&PredictionModel{},
		&CampaignModel{},
		&DeliveryModel{},
	}
}
