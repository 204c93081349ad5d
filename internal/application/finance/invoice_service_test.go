package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invoiceFixture struct {
	svc       *InvoiceService
	invoices  *testutil.MockInvoiceRepository
	payments  *testutil.MockPaymentRepository
	customers *testutil.MockCustomerRepository
	orders    *testutil.MockOrderRepository
	events    *testutil.RecordingPublisher
}

func setupInvoices() invoiceFixture {
	f := invoiceFixture{
		invoices:  new(testutil.MockInvoiceRepository),
		payments:  new(testutil.MockPaymentRepository),
		customers: new(testutil.MockCustomerRepository),
		orders:    new(testutil.MockOrderRepository),
		events:    &testutil.RecordingPublisher{},
	}
	f.svc = NewInvoiceService(f.invoices, f.payments, f.customers, f.orders, f.events, zap.NewNop())
	return f
}

func sentInvoice(t *testing.T, tenantID, customerID uuid.UUID, total int64) *finance.Invoice {
	t.Helper()
	issue := time.Now().AddDate(0, 0, -40)
	inv, err := finance.NewInvoice(tenantID, customerID, []finance.InvoiceLine{
		{Description: "Bespoke wardrobe", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(total)},
	}, issue, issue.AddDate(0, 0, 30), "usd")
	require.NoError(t, err)
	require.NoError(t, inv.Send())
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("computes totals", func(t *testing.T) {
		f := setupInvoices()
		customerID := uuid.New()
		f.customers.On("FindByIDForTenant", ctx, tenantID, customerID).Return(&crm.Customer{}, nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*finance.Invoice")).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, actorID, CreateInvoiceRequest{
			CustomerID: customerID,
			Lines: []InvoiceLineRequest{
				{Description: "Chair", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(150), TaxRate: decimal.RequireFromString("0.1")},
				{Description: "Delivery", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
			},
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(650).Equal(resp.Subtotal))
		assert.True(t, decimal.NewFromInt(60).Equal(resp.TaxTotal))
		assert.True(t, decimal.NewFromInt(710).Equal(resp.BalanceDue))
		assert.Equal(t, "USD", resp.Currency)
		assert.Equal(t, "draft", resp.Status)
		assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, resp.InvoiceNumber)
		assert.Equal(t, []string{finance.EventTypeInvoiceCreated}, f.events.Types())
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := setupInvoices()
		missing := uuid.New()
		f.customers.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, tenantID, actorID, CreateInvoiceRequest{
			CustomerID: missing,
			Lines:      []InvoiceLineRequest{{Description: "x", Quantity: decimal.NewFromInt(1)}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CUSTOMER", domainErr.Code)
	})
}

func TestInvoiceService_CreateFromOrder(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	newConfirmed := func(t *testing.T) *orders.Order {
		o, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{
			{Description: "Table", Quantity: 1, UnitPrice: decimal.NewFromInt(800)},
			{Description: "Bench", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		}, decimal.NewFromInt(100), decimal.RequireFromString("0.2"))
		require.NoError(t, err)
		require.NoError(t, o.Confirm())
		return o
	}

	t.Run("spreads the discount and keeps the total", func(t *testing.T) {
		f := setupInvoices()
		order := newConfirmed(t)
		f.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
		f.invoices.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
			return fl.Filters["order_id"] == order.ID
		})).Return([]finance.Invoice{}, nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*finance.Invoice")).Return(nil)

		resp, err := f.svc.CreateFromOrder(ctx, tenantID, actorID, CreateFromOrderRequest{OrderID: order.ID})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 2)
		assert.Equal(t, order.ID, *resp.OrderID)
		assert.Equal(t, order.CustomerID, resp.CustomerID)
		assert.True(t, decimal.NewFromInt(900).Equal(resp.Subtotal), resp.Subtotal.String())
		assert.True(t, order.Total.Equal(resp.Total), "%s != %s", order.Total, resp.Total)
	})

	t.Run("draft order rejected", func(t *testing.T) {
		f := setupInvoices()
		o, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{{Description: "Table", Quantity: 1}}, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		f.orders.On("FindByIDForTenant", ctx, tenantID, o.ID).Return(o, nil)

		_, err = f.svc.CreateFromOrder(ctx, tenantID, actorID, CreateFromOrderRequest{OrderID: o.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("order already invoiced", func(t *testing.T) {
		f := setupInvoices()
		order := newConfirmed(t)
		existing := sentInvoice(t, tenantID, order.CustomerID, 100)
		f.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
		f.invoices.On("FindAllForTenant", ctx, tenantID, mock.Anything).Return([]finance.Invoice{*existing}, nil)

		_, err := f.svc.CreateFromOrder(ctx, tenantID, actorID, CreateFromOrderRequest{OrderID: order.ID})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("partial then paid", func(t *testing.T) {
		f := setupInvoices()
		customer, err := crm.NewCustomer(tenantID, "Ada Birch", "")
		require.NoError(t, err)
		inv := sentInvoice(t, tenantID, customer.ID, 1000)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
		f.invoices.On("SaveWithPayment", ctx, inv, mock.AnythingOfType("*finance.Payment")).Return(nil)
		f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		f.customers.On("Save", ctx, customer).Return(nil)

		res, err := f.svc.RecordPayment(ctx, tenantID, actorID, inv.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(400), Method: "card"})
		require.NoError(t, err)
		assert.Equal(t, "partial", res.Invoice.Status)
		assert.True(t, decimal.NewFromInt(600).Equal(res.Invoice.BalanceDue))
		assert.Equal(t, "card", res.Payment.Method)

		res, err = f.svc.RecordPayment(ctx, tenantID, actorID, inv.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(600), Method: "bank_transfer"})
		require.NoError(t, err)
		assert.Equal(t, "paid", res.Invoice.Status)
		assert.NotNil(t, res.Invoice.PaidAt)
		assert.True(t, decimal.NewFromInt(1000).Equal(customer.LifetimeValue))
		assert.Equal(t, []string{
			finance.EventTypePaymentRecorded,
			finance.EventTypePaymentRecorded,
			finance.EventTypeInvoicePaid,
		}, f.events.Types())
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("concurrent payment conflicts", func(t *testing.T) {
		f := setupInvoices()
		customerID := uuid.New()
		inv := sentInvoice(t, tenantID, customerID, 500)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
		f.invoices.On("SaveWithPayment", ctx, inv, mock.MatchedBy(func(p *finance.Payment) bool {
			return p.InvoiceID == inv.ID && p.Amount.Equal(decimal.NewFromInt(500))
		})).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.RecordPayment(ctx, tenantID, actorID, inv.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(500), Method: "card"})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, "CONCURRENCY_CONFLICT", shared.ErrorCode(err))
		assert.Empty(t, f.events.Types())
		f.customers.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, customerID)
	})

	t.Run("cannot exceed the balance", func(t *testing.T) {
		f := setupInvoices()
		inv := sentInvoice(t, tenantID, uuid.New(), 100)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

		_, err := f.svc.RecordPayment(ctx, tenantID, actorID, inv.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(150), Method: "cash"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", domainErr.Code)
		f.invoices.AssertNotCalled(t, "SaveWithPayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("draft invoice rejected", func(t *testing.T) {
		f := setupInvoices()
		inv, err := finance.NewInvoice(tenantID, uuid.New(), []finance.InvoiceLine{
			{Description: "Lamp", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(90)},
		}, time.Time{}, time.Time{}, "")
		require.NoError(t, err)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

		_, err = f.svc.RecordPayment(ctx, tenantID, actorID, inv.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(10), Method: "cash"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInvoiceService_DeleteAndUpdate_OnlyDraft(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setupInvoices()
	inv := sentInvoice(t, tenantID, uuid.New(), 100)
	f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

	err := f.svc.Delete(ctx, tenantID, inv.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	notes := "edit"
	_, err = f.svc.Update(ctx, tenantID, inv.ID, UpdateInvoiceRequest{Notes: &notes})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	f := setupInvoices()
	late := sentInvoice(t, uuid.New(), uuid.New(), 300)
	broken := sentInvoice(t, uuid.New(), uuid.New(), 200)
	paidMeanwhile := sentInvoice(t, uuid.New(), uuid.New(), 150)

	byID := func(id uuid.UUID) any {
		return mock.MatchedBy(func(inv *finance.Invoice) bool { return inv.ID == id })
	}
	f.invoices.On("FindOverdueCandidates", ctx, now, overdueBatchSize).
		Return([]finance.Invoice{*late, *broken, *paidMeanwhile}, nil)
	f.invoices.On("SaveWithLock", ctx, byID(late.ID)).Return(nil)
	f.invoices.On("SaveWithLock", ctx, byID(broken.ID)).Return(errors.New("db down"))
	f.invoices.On("SaveWithLock", ctx, byID(paidMeanwhile.ID)).Return(shared.ErrConcurrencyConflict)

	res, err := f.svc.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 1, res.Marked)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{finance.EventTypeInvoiceOverdue}, f.events.Types())
	f.invoices.AssertNumberOfCalls(t, "FindOverdueCandidates", 1)
}
