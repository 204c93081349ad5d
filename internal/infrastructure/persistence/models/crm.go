package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for CRM customers.
// The display name lives in the client_name column.
type CustomerModel struct {
	RootRow
	Name               string             `gorm:"column:client_name;type:varchar(200);not null"`
	Email              string             `gorm:"type:varchar(255);not null;default:''"`
	Phone              string             `gorm:"type:varchar(50);not null;default:''"`
	Company            string             `gorm:"type:varchar(200);not null;default:''"`
	Address            string             `gorm:"type:text;not null;default:''"`
	Status             crm.CustomerStatus `gorm:"type:varchar(20);not null;default:'lead'"`
	Source             string             `gorm:"type:varchar(100);not null;default:''"`
	Tags               []string           `gorm:"type:jsonb;serializer:json"`
	Notes              string             `gorm:"type:text;not null;default:''"`
	SupportTicketCount int                `gorm:"not null;default:0"`
	LastContactAt      *time.Time
	LifetimeValue      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *crm.Customer {
	c := &crm.Customer{
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Company:            m.Company,
		Address:            m.Address,
		Status:             m.Status,
		Source:             m.Source,
		Tags:               m.Tags,
		Notes:              m.Notes,
		SupportTicketCount: m.SupportTicketCount,
		LastContactAt:      m.LastContactAt,
		LifetimeValue:      m.LifetimeValue,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	m.loadRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the model from a domain Customer.
func (m *CustomerModel) FromDomain(c *crm.Customer) {
	m.storeRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Company = c.Company
	m.Address = c.Address
	m.Status = c.Status
	m.Source = c.Source
	m.Tags = c.Tags
	if m.Tags == nil {
		m.Tags = []string{}
	}
	m.Notes = c.Notes
	m.SupportTicketCount = c.SupportTicketCount
	m.LastContactAt = c.LastContactAt
	m.LifetimeValue = c.LifetimeValue
}

// CustomerModelFromDomain creates a model from a domain Customer.
func CustomerModelFromDomain(c *crm.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ActivityModel is the persistence model for customer activities.
type ActivityModel struct {
	RootRow
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type       crm.ActivityType `gorm:"type:varchar(20);not null"`
	Subject    string           `gorm:"type:varchar(255);not null"`
	Notes      string           `gorm:"type:text;not null;default:''"`
	OccurredAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity.
func (m *ActivityModel) ToDomain() *crm.Activity {
	a := &crm.Activity{
		CustomerID: m.CustomerID,
		Type:       m.Type,
		Subject:    m.Subject,
		Notes:      m.Notes,
		OccurredAt: m.OccurredAt,
	}
	m.loadRoot(&a.TenantAggregateRoot)
	return a
}

// ActivityModelFromDomain creates a model from a domain Activity.
func ActivityModelFromDomain(a *crm.Activity) *ActivityModel {
	m := &ActivityModel{
		CustomerID: a.CustomerID,
		Type:       a.Type,
		Subject:    a.Subject,
		Notes:      a.Notes,
		OccurredAt: a.OccurredAt,
	}
	m.storeRoot(a.TenantAggregateRoot)
	return m
}
