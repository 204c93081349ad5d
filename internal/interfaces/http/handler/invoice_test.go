package handler

import (
	"net/http"
	"testing"
	"time"

	financeapp "github.com/furnitureops/backend/internal/application/finance"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSentInvoice(t *testing.T, tenantID uuid.UUID, total int64) *finance.Invoice {
	t.Helper()
	issue := time.Now().AddDate(0, 0, -5)
	inv, err := finance.NewInvoice(tenantID, uuid.New(), []finance.InvoiceLine{
		{Description: "Oak sideboard", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(total)},
	}, issue, issue.AddDate(0, 0, 30), "usd")
	require.NoError(t, err)
	require.NoError(t, inv.Send())
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	tenantID := testutil.SeededUUID("tenant")
	invoices := new(testutil.MockInvoiceRepository)
	customers := new(testutil.MockCustomerRepository)
	svc := financeapp.NewInvoiceService(invoices,
		new(testutil.MockPaymentRepository),
		customers,
		new(testutil.MockOrderRepository),
		nil, zap.NewNop())
	h := NewInvoiceHandler(svc, nil)

	open := newSentInvoice(t, tenantID, 900)
	raced := newSentInvoice(t, tenantID, 900)
	for _, inv := range []*finance.Invoice{open, raced} {
		invoices.On("FindByIDForTenant", mock.Anything, tenantID, inv.ID).Return(inv, nil)
		customers.On("FindByIDForTenant", mock.Anything, tenantID, inv.CustomerID).Return(nil, shared.ErrNotFound)
	}
	invoices.On("SaveWithPayment", mock.Anything, open, mock.AnythingOfType("*finance.Payment")).Return(nil)
	invoices.On("SaveWithPayment", mock.Anything, raced, mock.AnythingOfType("*finance.Payment")).Return(shared.ErrConcurrencyConflict)

	payInto := func(inv *finance.Invoice) func(*testing.T, *testutil.TestContext) {
		return func(_ *testing.T, tc *testutil.TestContext) {
			tc.SetTenantID(tenantID)
			tc.SetUserID(testutil.SeededUUID("cashier"))
			tc.SetParam("id", inv.ID.String())
		}
	}

	testutil.RunHTTPTestCases(t, h.RecordPayment, []testutil.HTTPTestCase{
		{
			Name:           "partial payment",
			Method:         http.MethodPost,
			Body:           map[string]any{"amount": "400", "method": "card"},
			Setup:          payInto(open),
			ExpectedStatus: http.StatusCreated,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				got := testutil.DecodeData[financeapp.PaymentResult](t, tc)
				assert.Equal(t, string(finance.InvoiceStatusPartial), got.Invoice.Status)
				assert.True(t, got.Invoice.BalanceDue.Equal(decimal.NewFromInt(500)), got.Invoice.BalanceDue.String())
			},
		},
		{
			Name:           "concurrent payment is a conflict",
			Method:         http.MethodPost,
			Body:           map[string]any{"amount": "900", "method": "bank_transfer"},
			Setup:          payInto(raced),
			ExpectedStatus: http.StatusConflict,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeConcurrencyConflict)
			},
		},
		{
			Name:           "unknown method",
			Method:         http.MethodPost,
			Body:           map[string]any{"amount": "10", "method": "barter"},
			Setup:          payInto(open),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertErrorResponse(t, tc, dto.ErrCodeValidation)
			},
		},
	})
	invoices.AssertNumberOfCalls(t, "SaveWithPayment", 2)
}
