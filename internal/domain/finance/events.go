package finance

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypePayment = "Payment"
)

// Event type constants
const (
	EventTypeInvoiceCreated  = "invoice.created"
	EventTypeInvoicePaid     = "invoice.paid"
	EventTypeInvoiceOverdue  = "invoice.overdue"
	EventTypePaymentRecorded = "payment.recorded"
)

func floatOf(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// InvoiceCreatedEvent is published when an invoice is drafted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Total:           inv.Total,
	}
}

// Payload implements shared.PayloadEvent
func (e *InvoiceCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"invoice_id":     e.InvoiceID.String(),
		"invoice_number": e.InvoiceNumber,
		"customer_id":    e.CustomerID.String(),
		"total":          floatOf(e.Total),
	}
}

// InvoicePaidEvent is published when the balance reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Total:           inv.Total,
	}
}

// Payload implements shared.PayloadEvent
func (e *InvoicePaidEvent) Payload() map[string]any {
	return map[string]any{
		"invoice_id":     e.InvoiceID.String(),
		"invoice_number": e.InvoiceNumber,
		"customer_id":    e.CustomerID.String(),
		"total":          floatOf(e.Total),
	}
}

// InvoiceOverdueEvent is published by the overdue sweep
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	DaysPastDue   int             `json:"days_past_due"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice, now time.Time) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		BalanceDue:      inv.BalanceDue,
		DaysPastDue:     inv.DaysPastDue(now),
	}
}

// Payload implements shared.PayloadEvent
func (e *InvoiceOverdueEvent) Payload() map[string]any {
	return map[string]any{
		"invoice_id":     e.InvoiceID.String(),
		"invoice_number": e.InvoiceNumber,
		"customer_id":    e.CustomerID.String(),
		"balance_due":    floatOf(e.BalanceDue),
		"days_past_due":  e.DaysPastDue,
	}
}

// PaymentRecordedEvent is published for every payment
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment, inv *Invoice) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.TenantID),
		PaymentID:       p.ID,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// Payload implements shared.PayloadEvent
func (e *PaymentRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"payment_id":     e.PaymentID.String(),
		"invoice_id":     e.InvoiceID.String(),
		"invoice_number": e.InvoiceNumber,
		"customer_id":    e.CustomerID.String(),
		"amount":         floatOf(e.Amount),
		"method":         string(e.Method),
	}
}
