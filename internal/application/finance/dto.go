package finance

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one billable line
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID            `json:"customer_id" binding:"required"`
	OrderID    *uuid.UUID           `json:"order_id"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	IssueDate  *time.Time           `json:"issue_date"`
	DueDate    *time.Time           `json:"due_date"`
	Currency   string               `json:"currency" binding:"omitempty,len=3"`
	Notes      string               `json:"notes" binding:"max=5000"`
}

// UpdateInvoiceRequest edits a draft invoice
type UpdateInvoiceRequest struct {
	Lines   *[]InvoiceLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
	DueDate *time.Time            `json:"due_date"`
	Notes   *string               `json:"notes" binding:"omitempty,max=5000"`
}

// CreateFromOrderRequest bills an order
type CreateFromOrderRequest struct {
	OrderID  uuid.UUID  `json:"order_id" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
	Currency string     `json:"currency" binding:"omitempty,len=3"`
}

// RecordPaymentRequest represents money received against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required,oneof=cash card bank_transfer check other"`
	Reference string          `json:"reference" binding:"max=200"`
	PaidAt    *time.Time      `json:"paid_at"`
}

// SignatureRequest sends an issued invoice out for e-signature
type SignatureRequest struct {
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"max=2000"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft sent partial paid overdue void"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Method     string     `form:"method" binding:"omitempty,oneof=cash card bank_transfer check other"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceLineResponse is an invoice line in API responses
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Amount      decimal.Decimal `json:"amount"`
	Tax         decimal.Decimal `json:"tax"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                uuid.UUID             `json:"id"`
	TenantID          uuid.UUID             `json:"tenant_id"`
	InvoiceNumber     string                `json:"invoice_number"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	OrderID           *uuid.UUID            `json:"order_id,omitempty"`
	Lines             []InvoiceLineResponse `json:"lines"`
	IssueDate         time.Time             `json:"issue_date"`
	DueDate           time.Time             `json:"due_date"`
	Currency          string                `json:"currency"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	TaxTotal          decimal.Decimal       `json:"tax_total"`
	Total             decimal.Decimal       `json:"total"`
	AmountPaid        decimal.Decimal       `json:"amount_paid"`
	BalanceDue        decimal.Decimal       `json:"balance_due"`
	Status            string                `json:"status"`
	Notes             string                `json:"notes"`
	SentAt            *time.Time            `json:"sent_at,omitempty"`
	PaidAt            *time.Time            `json:"paid_at,omitempty"`
	VoidedAt          *time.Time            `json:"voided_at,omitempty"`
	PDFKey            string                `json:"pdf_key,omitempty"`
	SignatureStatus   string                `json:"signature_status,omitempty"`
	SignatureDocument string                `json:"signature_document,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int                   `json:"version"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference"`
	PaidAt     time.Time       `json:"paid_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentResult is returned after recording a payment
type PaymentResult struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// InvoicePDF is a rendered invoice document
type InvoicePDF struct {
	FileName string
	Key      string
	Data     []byte
}

// OverdueSweepResult summarizes one overdue sweep
type OverdueSweepResult struct {
	Scanned int `json:"scanned"`
	Marked  int `json:"marked"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Amount:      l.Amount(),
			Tax:         l.Tax(),
		}
	}
	return InvoiceResponse{
		ID:                inv.ID,
		TenantID:          inv.TenantID,
		InvoiceNumber:     inv.InvoiceNumber,
		CustomerID:        inv.CustomerID,
		OrderID:           inv.OrderID,
		Lines:             lines,
		IssueDate:         inv.IssueDate,
		DueDate:           inv.DueDate,
		Currency:          inv.Currency,
		Subtotal:          inv.Subtotal,
		TaxTotal:          inv.TaxTotal,
		Total:             inv.Total,
		AmountPaid:        inv.AmountPaid,
		BalanceDue:        inv.BalanceDue,
		Status:            string(inv.Status),
		Notes:             inv.Notes,
		SentAt:            inv.SentAt,
		PaidAt:            inv.PaidAt,
		VoidedAt:          inv.VoidedAt,
		PDFKey:            inv.PDFKey,
		SignatureStatus:   string(inv.SignatureStatus),
		SignatureDocument: inv.SignatureDocument,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
}

// ToInvoiceResponses converts a slice of domain Invoices
func ToInvoiceResponses(list []finance.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(list))
	for i := range list {
		responses[i] = ToInvoiceResponse(&list[i])
	}
	return responses
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		InvoiceID:  p.InvoiceID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		Reference:  p.Reference,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain Payments
func ToPaymentResponses(list []finance.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(list))
	for i := range list {
		responses[i] = ToPaymentResponse(&list[i])
	}
	return responses
}

func toLines(reqs []InvoiceLineRequest) []finance.InvoiceLine {
	lines := make([]finance.InvoiceLine, len(reqs))
	for i, r := range reqs {
		lines[i] = finance.InvoiceLine{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TaxRate:     r.TaxRate,
		}
	}
	return lines
}
