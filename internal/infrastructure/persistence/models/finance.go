package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoices.
type InvoiceModel struct {
	RootRow
	InvoiceNumber     string                `gorm:"type:varchar(32);not null"`
	CustomerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID           *uuid.UUID            `gorm:"type:uuid;index"`
	Lines             []finance.InvoiceLine `gorm:"type:jsonb;serializer:json"`
	IssueDate         time.Time             `gorm:"not null"`
	DueDate           time.Time             `gorm:"not null;index"`
	Currency          string                `gorm:"type:varchar(3);not null;default:'USD'"`
	Subtotal          decimal.Decimal       `gorm:"type:numeric(18,2);not null;default:0"`
	TaxTotal          decimal.Decimal       `gorm:"type:numeric(18,2);not null;default:0"`
	Total             decimal.Decimal       `gorm:"type:numeric(18,2);not null;default:0"`
	AmountPaid        decimal.Decimal       `gorm:"type:numeric(18,2);not null;default:0"`
	BalanceDue        decimal.Decimal       `gorm:"type:numeric(18,2);not null;default:0"`
	Status            finance.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Notes             string                `gorm:"type:text;not null;default:''"`
	SentAt            *time.Time
	PaidAt            *time.Time
	VoidedAt          *time.Time
	PDFKey            string                  `gorm:"column:pdf_key;type:varchar(500);not null;default:''"`
	SignatureStatus   finance.SignatureStatus `gorm:"type:varchar(20);not null;default:''"`
	SignatureDocument string                  `gorm:"type:varchar(100);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		OrderID:           m.OrderID,
		Lines:             m.Lines,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Currency:          m.Currency,
		Subtotal:          m.Subtotal,
		TaxTotal:          m.TaxTotal,
		Total:             m.Total,
		AmountPaid:        m.AmountPaid,
		BalanceDue:        m.BalanceDue,
		Status:            m.Status,
		Notes:             m.Notes,
		SentAt:            m.SentAt,
		PaidAt:            m.PaidAt,
		VoidedAt:          m.VoidedAt,
		PDFKey:            m.PDFKey,
		SignatureStatus:   m.SignatureStatus,
		SignatureDocument: m.SignatureDocument,
	}
	if inv.Lines == nil {
		inv.Lines = []finance.InvoiceLine{}
	}
	m.loadRoot(&inv.TenantAggregateRoot)
	return inv
}

// InvoiceModelFromDomain creates a model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:     inv.InvoiceNumber,
		CustomerID:        inv.CustomerID,
		OrderID:           inv.OrderID,
		Lines:             inv.Lines,
		IssueDate:         inv.IssueDate,
		DueDate:           inv.DueDate,
		Currency:          inv.Currency,
		Subtotal:          inv.Subtotal,
		TaxTotal:          inv.TaxTotal,
		Total:             inv.Total,
		AmountPaid:        inv.AmountPaid,
		BalanceDue:        inv.BalanceDue,
		Status:            inv.Status,
		Notes:             inv.Notes,
		SentAt:            inv.SentAt,
		PaidAt:            inv.PaidAt,
		VoidedAt:          inv.VoidedAt,
		PDFKey:            inv.PDFKey,
		SignatureStatus:   inv.SignatureStatus,
		SignatureDocument: inv.SignatureDocument,
	}
	if m.Lines == nil {
		m.Lines = []finance.InvoiceLine{}
	}
	m.storeRoot(inv.TenantAggregateRoot)
	return m
}

// PaymentModel is the persistence model for invoice payments.
type PaymentModel struct {
	RootRow
	InvoiceID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID             `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal       `gorm:"type:numeric(18,2);not null"`
	Method     finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference  string                `gorm:"type:varchar(100);not null;default:''"`
	PaidAt     time.Time             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *finance.Payment {
	p := &finance.Payment{
		InvoiceID:  m.InvoiceID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Method:     m.Method,
		Reference:  m.Reference,
		PaidAt:     m.PaidAt,
	}
	m.loadRoot(&p.TenantAggregateRoot)
	return p
}

// PaymentModelFromDomain creates a model from a domain Payment.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		InvoiceID:  p.InvoiceID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Method:     p.Method,
		Reference:  p.Reference,
		PaidAt:     p.PaidAt,
	}
	m.storeRoot(p.TenantAggregateRoot)
	return m
}
