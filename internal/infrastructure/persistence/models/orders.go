package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemJSON is the JSONB shape of an order line.
type OrderItemJSON struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderModel is the persistence model for customer orders.
type OrderModel struct {
	RootRow
	OrderNumber string          `gorm:"type:varchar(32);not null"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items       []OrderItemJSON `gorm:"type:jsonb;serializer:json"`
	Discount    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Notes       string          `gorm:"type:text;not null;default:''"`
	DueDate     *time.Time
	Status      orders.OrderStatus `gorm:"type:varchar(20);not null;index"`
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *orders.Order {
	o := &orders.Order{
		OrderNumber: m.OrderNumber,
		CustomerID:  m.CustomerID,
		Items:       make([]orders.OrderItem, len(m.Items)),
		Discount:    m.Discount,
		TaxRate:     m.TaxRate,
		Subtotal:    m.Subtotal,
		TaxAmount:   m.TaxAmount,
		Total:       m.Total,
		Notes:       m.Notes,
		DueDate:     m.DueDate,
		Status:      m.Status,
		ConfirmedAt: m.ConfirmedAt,
		ShippedAt:   m.ShippedAt,
		DeliveredAt: m.DeliveredAt,
		CancelledAt: m.CancelledAt,
	}
	for i, it := range m.Items {
		o.Items[i] = orders.OrderItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	m.loadRoot(&o.TenantAggregateRoot)
	return o
}

// OrderModelFromDomain creates a model from a domain Order.
func OrderModelFromDomain(o *orders.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Items:       make([]OrderItemJSON, len(o.Items)),
		Discount:    o.Discount,
		TaxRate:     o.TaxRate,
		Subtotal:    o.Subtotal,
		TaxAmount:   o.TaxAmount,
		Total:       o.Total,
		Notes:       o.Notes,
		DueDate:     o.DueDate,
		Status:      o.Status,
		ConfirmedAt: o.ConfirmedAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CancelledAt: o.CancelledAt,
	}
	for i, it := range o.Items {
		m.Items[i] = OrderItemJSON{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	m.storeRoot(o.TenantAggregateRoot)
	return m
}

// TrackingModel is the persistence model for per-item production tracking.
type TrackingModel struct {
	RootRow
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemIndex      int              `gorm:"not null"`
	ProductName    string           `gorm:"type:varchar(255);not null"`
	Quantity       int              `gorm:"not null"`
	Stage          production.Stage `gorm:"type:varchar(20);not null;index"`
	Progress       int              `gorm:"not null;default:0"`
	AssignedTo     string           `gorm:"type:varchar(100);not null;default:''"`
	StartedAt      *time.Time
	StageEnteredAt time.Time `gorm:"not null"`
	CompletedAt    *time.Time
	DueDate        *time.Time
	Notes          string                   `gorm:"type:text;not null;default:''"`
	History        []production.StageChange `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (TrackingModel) TableName() string {
	return "production_tracking"
}

// ToDomain converts the persistence model to a domain Tracking.
func (m *TrackingModel) ToDomain() *production.Tracking {
	t := &production.Tracking{
		OrderID:        m.OrderID,
		ItemIndex:      m.ItemIndex,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		Stage:          m.Stage,
		Progress:       m.Progress,
		AssignedTo:     m.AssignedTo,
		StartedAt:      m.StartedAt,
		StageEnteredAt: m.StageEnteredAt,
		CompletedAt:    m.CompletedAt,
		DueDate:        m.DueDate,
		Notes:          m.Notes,
		History:        m.History,
	}
	if t.History == nil {
		t.History = []production.StageChange{}
	}
	m.loadRoot(&t.TenantAggregateRoot)
	return t
}

// TrackingModelFromDomain creates a model from a domain Tracking.
func TrackingModelFromDomain(t *production.Tracking) *TrackingModel {
	m := &TrackingModel{
		OrderID:        t.OrderID,
		ItemIndex:      t.ItemIndex,
		ProductName:    t.ProductName,
		Quantity:       t.Quantity,
		Stage:          t.Stage,
		Progress:       t.Progress,
		AssignedTo:     t.AssignedTo,
		StartedAt:      t.StartedAt,
		StageEnteredAt: t.StageEnteredAt,
		CompletedAt:    t.CompletedAt,
		DueDate:        t.DueDate,
		Notes:          t.Notes,
		History:        t.History,
	}
	if m.History == nil {
		m.History = []production.StageChange{}
	}
	m.storeRoot(t.TenantAggregateRoot)
	return m
}
