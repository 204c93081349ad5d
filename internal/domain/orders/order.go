package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle of a customer order
type OrderStatus string

const (
	OrderStatusDraft        OrderStatus = "draft"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusReady        OrderStatus = "ready"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:    {OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:        {OrderStatusShipped},
	OrderStatusShipped:      {OrderStatusDelivered},
}

// CanTransitionTo reports whether the order may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// OrderItem is a line on an order
type OrderItem struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal returns quantity times unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer order for made-to-order furniture
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber string
	CustomerID  uuid.UUID
	Items       []OrderItem
	Discount    decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	DueDate     *time.Time
	Status      OrderStatus
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// NewOrder creates a draft order with computed totals
func NewOrder(tenantID, customerID uuid.UUID, items []OrderItem, discount, taxRate decimal.Decimal) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Status:              OrderStatusDraft,
	}
	o.OrderNumber = GenerateOrderNumber(o.CreatedAt, o.ID)
	if err := o.setLines(items, discount, taxRate); err != nil {
		return nil, err
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// GenerateOrderNumber builds SO-YYYYMMDD-xxxxxx from the creation date and id
func GenerateOrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("SO-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:6]))
}

// UpdateLines replaces items and pricing. Only draft orders can be edited.
func (o *Order) UpdateLines(items []OrderItem, discount, taxRate decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be edited")
	}
	if err := o.setLines(items, discount, taxRate); err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

// SetDetails sets notes and the promised due date
func (o *Order) SetDetails(notes string, dueDate *time.Time) {
	o.Notes = notes
	o.DueDate = dueDate
	o.IncrementVersion()
}

func (o *Order) setLines(items []OrderItem, discount, taxRate decimal.Decimal) error {
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Order must have at least one item")
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Item %d: quantity must be positive", i+1))
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Item %d: unit price cannot be negative", i+1))
		}
		if strings.TrimSpace(item.Description) == "" {
			return shared.NewDomainError("INVALID_ITEMS", fmt.Sprintf("Item %d: description is required", i+1))
		}
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	if discount.GreaterThan(subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	o.Items = items
	o.Discount = discount
	o.TaxRate = taxRate
	o.Subtotal = subtotal
	o.TaxAmount = subtotal.Sub(discount).Mul(taxRate).Round(2)
	o.Total = subtotal.Sub(discount).Add(o.TaxAmount)
	return nil
}

// Confirm locks the order for production
func (o *Order) Confirm() error {
	if err := o.transition(OrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	return nil
}

// StartProduction moves a confirmed order onto the shop floor
func (o *Order) StartProduction() error {
	return o.transition(OrderStatusInProduction)
}

// MarkReady flags that every item has cleared production
func (o *Order) MarkReady() error {
	return o.transition(OrderStatusReady)
}

// Ship records dispatch
func (o *Order) Ship() error {
	if err := o.transition(OrderStatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	return nil
}

// Deliver records receipt by the customer
func (o *Order) Deliver() error {
	if err := o.transition(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	return nil
}

// Cancel cancels the order before it ships
func (o *Order) Cancel() error {
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	return nil
}

// IsOverdue reports whether the due date passed before delivery
func (o *Order) IsOverdue(now time.Time) bool {
	if o.DueDate == nil {
		return false
	}
	switch o.Status {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return now.After(*o.DueDate)
}

// TotalQuantity sums item quantities
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) transition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, next))
	}
	old := o.Status
	o.Status = next
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}
