package finance

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the money arrived
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid reports whether the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is money received against an invoice
type Payment struct {
	shared.TenantAggregateRoot
	InvoiceID  uuid.UUID
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     PaymentMethod
	Reference  string
	PaidAt     time.Time
}

// NewPayment creates a payment record
func NewPayment(tenantID uuid.UUID, inv *Invoice, amount decimal.Decimal, method PaymentMethod, reference string, paidAt time.Time) (*Payment, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceID:           inv.ID,
		CustomerID:          inv.CustomerID,
		Amount:              amount,
		Method:              method,
		Reference:           strings.TrimSpace(reference),
		PaidAt:              paidAt,
	}
	p.AddDomainEvent(NewPaymentRecordedEvent(p, inv))
	return p, nil
}
