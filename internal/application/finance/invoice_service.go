package finance

import (
	"context"
	"errors"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// overdueBatchSize bounds one FindOverdueCandidates page
const overdueBatchSize = 200

// InvoiceService handles invoice and payment use cases
type InvoiceService struct {
	invoiceRepo  finance.InvoiceRepository
	paymentRepo  finance.PaymentRepository
	customerRepo crm.CustomerRepository
	orderRepo    orders.OrderRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	paymentRepo finance.PaymentRepository,
	customerRepo crm.CustomerRepository,
	orderRepo orders.OrderRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a draft invoice
func (s *InvoiceService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.ensureCustomer(ctx, tenantID, req.CustomerID); err != nil {
		return nil, err
	}
	if req.OrderID != nil {
		if _, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, *req.OrderID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_ORDER", "Order does not exist")
			}
			return nil, err
		}
	}

	var issue, due time.Time
	if req.IssueDate != nil {
		issue = *req.IssueDate
	}
	if req.DueDate != nil {
		due = *req.DueDate
	}
	inv, err := finance.NewInvoice(tenantID, req.CustomerID, toLines(req.Lines), issue, due, req.Currency)
	if err != nil {
		return nil, err
	}
	if req.OrderID != nil {
		inv.LinkOrder(*req.OrderID)
	}
	inv.Notes = req.Notes
	inv.SetCreatedBy(actorID)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.String()))
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// CreateFromOrder bills a confirmed order. Each order item becomes a line
// taxed at the order rate; an order discount is spread across the lines.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, tenantID, actorID uuid.UUID, req CreateFromOrderRequest) (*InvoiceResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == orders.OrderStatusDraft || order.Status == orders.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Only confirmed orders can be invoiced")
	}

	existing := shared.DefaultFilter()
	existing.Filters["order_id"] = order.ID
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, existing)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].Status != finance.InvoiceStatusVoid {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Order already has invoice "+invoices[i].InvoiceNumber)
		}
	}

	var due time.Time
	if req.DueDate != nil {
		due = *req.DueDate
	}
	inv, err := finance.NewInvoice(tenantID, order.CustomerID, linesFromOrder(order), time.Time{}, due, req.Currency)
	if err != nil {
		return nil, err
	}
	inv.LinkOrder(order.ID)
	inv.Notes = order.Notes
	inv.SetCreatedBy(actorID)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created from order",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("order_number", order.OrderNumber))
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves a page of invoices
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}

	list, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(list), total, nil
}

// Update edits a draft invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	lines := inv.Lines
	if req.Lines != nil {
		lines = toLines(*req.Lines)
	}
	var due time.Time
	if req.DueDate != nil {
		due = *req.DueDate
	}
	notes := inv.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := inv.UpdateDraft(lines, due, notes); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inv.Status != finance.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, id)
}

// Send issues a draft invoice
func (s *InvoiceService) Send(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Invoice).Send)
}

// Void cancels an invoice without payments
func (s *InvoiceService) Void(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Invoice).Void)
}

func (s *InvoiceService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*finance.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("status", string(inv.Status)))
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// RecordPayment applies a payment to an open invoice and adds it to the
// customer's lifetime value.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if !finance.PaymentMethod(req.Method).IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+req.Method)
	}
	if err := inv.ApplyPayment(req.Amount, paidAt); err != nil {
		return nil, err
	}
	payment, err := finance.NewPayment(tenantID, inv, req.Amount, finance.PaymentMethod(req.Method), req.Reference, paidAt)
	if err != nil {
		return nil, err
	}
	payment.SetCreatedBy(actorID)

	// a concurrent payment on the same invoice surfaces as CONCURRENCY_CONFLICT
	if err := s.invoiceRepo.SaveWithPayment(ctx, inv, payment); err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(inv.Status)))

	if customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, inv.CustomerID); err == nil {
		customer.AddLifetimeValue(req.Amount)
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			s.logger.Warn("Failed to update customer lifetime value", zap.Error(err))
		}
	} else {
		s.logger.Warn("Customer not found for payment", zap.String("customer_id", inv.CustomerID.String()), zap.Error(err))
	}

	s.publish(ctx, payment)
	s.publish(ctx, inv)
	return &PaymentResult{
		Payment: ToPaymentResponse(payment),
		Invoice: ToInvoiceResponse(inv),
	}, nil
}

// ListPayments retrieves a page of payments
func (s *InvoiceService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.InvoiceID != nil {
		domainFilter.Filters["invoice_id"] = *filter.InvoiceID
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Method != "" {
		domainFilter.Filters["method"] = filter.Method
	}

	list, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPaymentResponses(list), total, nil
}

// ListInvoicePayments returns every payment of one invoice
func (s *InvoiceService) ListInvoicePayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	list, err := s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(list), nil
}

// MarkOverdue flags every sent or partially paid invoice whose due date
// passed before asOf, across all tenants.
func (s *InvoiceService) MarkOverdue(ctx context.Context, asOf time.Time) (*OverdueSweepResult, error) {
	result := &OverdueSweepResult{}
	for {
		batch, err := s.invoiceRepo.FindOverdueCandidates(ctx, asOf, overdueBatchSize)
		if err != nil {
			return result, err
		}
		marked := 0
		for i := range batch {
			inv := &batch[i]
			result.Scanned++
			if !inv.MarkOverdue(asOf) {
				continue
			}
			if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					// changed since the scan, a later sweep sees the new state
					result.Skipped++
					continue
				}
				result.Failed++
				s.logger.Error("Failed to mark invoice overdue",
					zap.String("invoice_id", inv.ID.String()),
					zap.Error(err))
				continue
			}
			marked++
			s.publish(ctx, inv)
		}
		result.Marked += marked
		if len(batch) < overdueBatchSize || marked == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}
	if result.Marked > 0 || result.Skipped > 0 || result.Failed > 0 {
		s.logger.Info("Overdue sweep finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("marked", result.Marked),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed))
	}
	return result, nil
}

func (s *InvoiceService) ensureCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return err
	}
	return nil
}

func (s *InvoiceService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// linesFromOrder converts order items to invoice lines. A discount scales
// every unit price by (subtotal - discount) / subtotal.
func linesFromOrder(o *orders.Order) []finance.InvoiceLine {
	factor := decimal.NewFromInt(1)
	if o.Discount.IsPositive() && o.Subtotal.IsPositive() {
		factor = o.Subtotal.Sub(o.Discount).Div(o.Subtotal)
	}
	lines := make([]finance.InvoiceLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = finance.InvoiceLine{
			Description: item.Description,
			Quantity:    decimal.NewFromInt(int64(item.Quantity)),
			UnitPrice:   item.UnitPrice.Mul(factor).Round(2),
			TaxRate:     o.TaxRate,
		}
	}
	return lines
}
