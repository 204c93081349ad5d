package handler

import (
	"net/http"
	"testing"

	ordersapp "github.com/furnitureops/backend/internal/application/orders"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDraftOrder(t *testing.T, tenantID uuid.UUID) *orders.Order {
	t.Helper()
	order, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{
		{Description: "Walnut dining table", Quantity: 1, UnitPrice: decimal.NewFromInt(2400)},
		{Description: "Upholstered dining chair", Quantity: 6, UnitPrice: decimal.NewFromInt(310)},
	}, decimal.Zero, decimal.RequireFromString("0.08"))
	require.NoError(t, err)
	return order
}

func TestOrderHandler_Transitions(t *testing.T) {
	tenantID := testutil.SeededUUID("tenant")
	orderRepo := new(testutil.MockOrderRepository)
	svc := ordersapp.NewOrderService(orderRepo,
		new(testutil.MockCustomerRepository),
		new(testutil.MockProductRepository),
		nil, zap.NewNop())
	h := NewOrderHandler(svc)

	draft := newDraftOrder(t, tenantID)
	confirmed := newDraftOrder(t, tenantID)
	require.NoError(t, confirmed.Confirm())
	stillDraft := newDraftOrder(t, tenantID)

	for _, o := range []*orders.Order{draft, confirmed, stillDraft} {
		orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, o.ID).Return(o, nil)
	}
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*orders.Order")).Return(nil)

	var opened []*production.Tracking
	orderRepo.On("SaveWithTracking", mock.Anything, confirmed, mock.Anything).
		Run(func(args mock.Arguments) { opened = args.Get(2).([]*production.Tracking) }).
		Return(nil)

	withOrder := func(o *orders.Order) func(*testing.T, *testutil.TestContext) {
		return func(_ *testing.T, tc *testutil.TestContext) {
			tc.SetTenantID(tenantID)
			tc.SetParam("id", o.ID.String())
		}
	}

	t.Run("confirm", func(t *testing.T) {
		testutil.RunHTTPTestCases(t, h.Confirm, []testutil.HTTPTestCase{{
			Name:           "draft becomes confirmed",
			Method:         http.MethodPost,
			Setup:          withOrder(draft),
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				got := testutil.DecodeData[ordersapp.OrderResponse](t, tc)
				assert.Equal(t, string(orders.OrderStatusConfirmed), got.Status)
				assert.True(t, got.Total.Equal(decimal.RequireFromString("4600.80")), got.Total.String())
			},
		}})
	})

	t.Run("start production", func(t *testing.T) {
		testutil.RunHTTPTestCases(t, h.StartProduction, []testutil.HTTPTestCase{
			{
				Name:           "opens one tracking row per item",
				Method:         http.MethodPost,
				Setup:          withOrder(confirmed),
				ExpectedStatus: http.StatusOK,
				Validate: func(t *testing.T, tc *testutil.TestContext) {
					got := testutil.DecodeData[ordersapp.OrderResponse](t, tc)
					assert.Equal(t, string(orders.OrderStatusInProduction), got.Status)
					require.Len(t, opened, 2)
					assert.Equal(t, "Upholstered dining chair", opened[1].ProductName)
				},
			},
			{
				Name:           "draft orders cannot skip confirmation",
				Method:         http.MethodPost,
				Setup:          withOrder(stillDraft),
				ExpectedStatus: http.StatusUnprocessableEntity,
				Validate: func(t *testing.T, tc *testutil.TestContext) {
					testutil.AssertErrorResponse(t, tc, dto.ErrCodeInvalidState)
				},
			},
		})
	})

	assert.Equal(t, orders.OrderStatusDraft, stillDraft.Status)
	orderRepo.AssertNumberOfCalls(t, "SaveWithTracking", 1)
}
