package orders

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name for orders
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is published when a new order is drafted
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Total:           o.Total,
		ItemCount:       len(o.Items),
	}
}

// Payload implements shared.PayloadEvent
func (e *OrderCreatedEvent) Payload() map[string]any {
	total, _ := e.Total.Float64()
	return map[string]any{
		"order_id":     e.OrderID.String(),
		"order_number": e.OrderNumber,
		"customer_id":  e.CustomerID.String(),
		"total":        total,
		"item_count":   e.ItemCount,
		"status":       string(OrderStatusDraft),
	}
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	OldStatus   OrderStatus     `json:"old_status"`
	NewStatus   OrderStatus     `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Total:           o.Total,
		OldStatus:       old,
		NewStatus:       o.Status,
	}
}

// Payload implements shared.PayloadEvent
func (e *OrderStatusChangedEvent) Payload() map[string]any {
	total, _ := e.Total.Float64()
	return map[string]any{
		"order_id":     e.OrderID.String(),
		"order_number": e.OrderNumber,
		"customer_id":  e.CustomerID.String(),
		"total":        total,
		"old_status":   string(e.OldStatus),
		"status":       string(e.NewStatus),
	}
}
