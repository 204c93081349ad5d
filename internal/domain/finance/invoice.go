package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the billing state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// IsOpen reports whether the invoice still expects money
func (s InvoiceStatus) IsOpen() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// SignatureStatus tracks the e-signature workflow of an invoice
type SignatureStatus string

const (
	SignatureStatusNone      SignatureStatus = ""
	SignatureStatusRequested SignatureStatus = "requested"
	SignatureStatusSigned    SignatureStatus = "signed"
	SignatureStatusDeclined  SignatureStatus = "declined"
)

// InvoiceLine is a billable line
type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// Amount returns quantity times unit price before tax
func (l InvoiceLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax returns the tax for the line rounded to cents
func (l InvoiceLine) Tax() decimal.Decimal {
	return l.Amount().Mul(l.TaxRate).Round(2)
}

// Invoice is the aggregate root for billing a customer
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber     string
	CustomerID        uuid.UUID
	OrderID           *uuid.UUID
	Lines             []InvoiceLine
	IssueDate         time.Time
	DueDate           time.Time
	Currency          string
	Subtotal          decimal.Decimal
	TaxTotal          decimal.Decimal
	Total             decimal.Decimal
	AmountPaid        decimal.Decimal
	BalanceDue        decimal.Decimal
	Status            InvoiceStatus
	Notes             string
	SentAt            *time.Time
	PaidAt            *time.Time
	VoidedAt          *time.Time
	PDFKey            string
	SignatureStatus   SignatureStatus
	SignatureDocument string
}

// NewInvoice creates a draft invoice
func NewInvoice(tenantID, customerID uuid.UUID, lines []InvoiceLine, issueDate, dueDate time.Time, currency string) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, 30)
	}
	if dueDate.Before(truncateDay(issueDate)) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the issue date")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Currency:            currency,
		Status:              InvoiceStatusDraft,
		AmountPaid:          decimal.Zero,
	}
	inv.InvoiceNumber = GenerateInvoiceNumber(inv.CreatedAt, inv.ID)
	if err := inv.setLines(lines); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// GenerateInvoiceNumber builds INV-YYYYMMDD-xxxxxx from the creation date and id
func GenerateInvoiceNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:6]))
}

// LinkOrder associates the invoice with the order it bills
func (inv *Invoice) LinkOrder(orderID uuid.UUID) {
	inv.OrderID = &orderID
}

// UpdateDraft replaces lines and dates while the invoice is still a draft
func (inv *Invoice) UpdateDraft(lines []InvoiceLine, dueDate time.Time, notes string) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if !dueDate.IsZero() {
		if dueDate.Before(truncateDay(inv.IssueDate)) {
			return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the issue date")
		}
		inv.DueDate = dueDate
	}
	if err := inv.setLines(lines); err != nil {
		return err
	}
	inv.Notes = notes
	inv.IncrementVersion()
	return nil
}

func (inv *Invoice) setLines(lines []InvoiceLine) error {
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "Invoice must have at least one line")
	}
	subtotal, tax := decimal.Zero, decimal.Zero
	for i, l := range lines {
		if strings.TrimSpace(l.Description) == "" {
			return shared.NewDomainError("INVALID_LINES", fmt.Sprintf("Line %d: description is required", i+1))
		}
		if !l.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Line %d: quantity must be positive", i+1))
		}
		if l.UnitPrice.IsNegative() || l.TaxRate.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Line %d: price and tax rate cannot be negative", i+1))
		}
		subtotal = subtotal.Add(l.Amount())
		tax = tax.Add(l.Tax())
	}
	inv.Lines = lines
	inv.Subtotal = subtotal
	inv.TaxTotal = tax
	inv.Total = subtotal.Add(tax)
	inv.BalanceDue = inv.Total.Sub(inv.AmountPaid)
	return nil
}

// Send issues the invoice to the customer
func (inv *Invoice) Send() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be sent")
	}
	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.IncrementVersion()
	return nil
}

// ApplyPayment records money received against the balance
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, paidAt time.Time) error {
	if !inv.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record a payment on a %s invoice", inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.BalanceDue) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE",
			fmt.Sprintf("Payment %s exceeds balance due %s", amount.StringFixed(2), inv.BalanceDue.StringFixed(2)))
	}

	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.BalanceDue = inv.Total.Sub(inv.AmountPaid)
	if inv.BalanceDue.IsZero() {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &paidAt
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartial
	}
	inv.IncrementVersion()
	return nil
}

// MarkOverdue flags an open invoice whose due date has passed. It reports
// whether the status changed.
func (inv *Invoice) MarkOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusPartial {
		return false
	}
	if inv.DaysPastDue(now) <= 0 {
		return false
	}
	inv.Status = InvoiceStatusOverdue
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv, now))
	return true
}

// Void cancels the invoice. Invoices with recorded payments cannot be voided.
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusVoid {
		return nil
	}
	if inv.Status == InvoiceStatusPaid || inv.AmountPaid.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Invoices with payments cannot be voided")
	}
	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.BalanceDue = decimal.Zero
	inv.IncrementVersion()
	return nil
}

// DaysPastDue returns calendar days between the due date and asOf; zero or
// negative means not yet due. The due date itself is day zero.
func (inv *Invoice) DaysPastDue(asOf time.Time) int {
	return int(calendarDay(asOf).Sub(calendarDay(inv.DueDate)) / (24 * time.Hour))
}

// AttachPDF records where the rendered PDF was archived
func (inv *Invoice) AttachPDF(key string) {
	inv.PDFKey = key
	inv.IncrementVersion()
}

// RequestSignature records that the invoice was sent out for e-signature
func (inv *Invoice) RequestSignature(documentID string) error {
	if inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Only issued invoices can be sent for signature")
	}
	if inv.SignatureStatus == SignatureStatusSigned {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already signed")
	}
	inv.SignatureStatus = SignatureStatusRequested
	inv.SignatureDocument = documentID
	inv.IncrementVersion()
	return nil
}

// CompleteSignature applies the provider's final signature state
func (inv *Invoice) CompleteSignature(signed bool) {
	if signed {
		inv.SignatureStatus = SignatureStatusSigned
	} else {
		inv.SignatureStatus = SignatureStatusDeclined
	}
	inv.IncrementVersion()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDay is t's calendar date at UTC midnight, so differences are whole
// days even across DST changes.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
