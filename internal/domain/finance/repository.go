package finance

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindBySignatureDocument(ctx context.Context, documentID string) (*Invoice, error)
	// FindAllForTenant supports filters: status, customer_id, order_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindOpen returns sent, partial and overdue invoices with a positive balance
	FindOpen(ctx context.Context, tenantID uuid.UUID) ([]Invoice, error)
	// FindOverdueCandidates returns sent or partial invoices due before the day of asOf, across tenants
	FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]Invoice, error)
	// FindIssuedBetween returns non-void, non-draft invoices issued in [from, to)
	FindIssuedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Invoice, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock updates an invoice that was mutated once since it was
	// loaded. It returns shared.ErrConcurrencyConflict when the stored
	// version is no longer invoice.Version-1.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	// SaveWithPayment is SaveWithLock plus the payment insert, in one transaction
	SaveWithPayment(ctx context.Context, invoice *Invoice, payment *Payment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)
	// FindAllForTenant supports filters: invoice_id, customer_id, method
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindPaidBetween returns payments received in [from, to)
	FindPaidBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
