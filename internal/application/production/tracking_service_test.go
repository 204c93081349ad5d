package production

import (
	"context"
	"testing"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *TrackingService
	tracking *testutil.MockTrackingRepository
	orders   *testutil.MockOrderRepository
	events   *testutil.RecordingPublisher
}

func setup() fixture {
	f := fixture{
		tracking: new(testutil.MockTrackingRepository),
		orders:   new(testutil.MockOrderRepository),
		events:   &testutil.RecordingPublisher{},
	}
	f.svc = NewTrackingService(f.tracking, f.orders, f.events, zap.NewNop())
	return f
}

func orderInProduction(t *testing.T, tenantID uuid.UUID) *orders.Order {
	t.Helper()
	o, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{
		{Description: "Armchair", Quantity: 2, UnitPrice: decimal.NewFromInt(700)},
	}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, o.Confirm())
	require.NoError(t, o.StartProduction())
	o.ClearDomainEvents()
	return o
}

func TestTrackingService_AdvanceStage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("records history and publishes", func(t *testing.T) {
		f := setup()
		row, err := production.NewTracking(tenantID, uuid.New(), 0, "Armchair", 2, nil)
		require.NoError(t, err)
		f.tracking.On("FindByIDForTenant", ctx, tenantID, row.ID).Return(row, nil)
		f.tracking.On("Save", ctx, row).Return(nil)

		resp, err := f.svc.AdvanceStage(ctx, tenantID, row.ID, "jo", AdvanceStageRequest{Stage: "assembly", Notes: "frame glued"})
		require.NoError(t, err)
		assert.Equal(t, "assembly", resp.Stage)
		assert.Equal(t, production.StageAssembly.Progress(), resp.Progress)
		require.Len(t, resp.History, 1)
		assert.Equal(t, "pending", resp.History[0].From)
		assert.Equal(t, "jo", resp.History[0].ChangedBy)
		assert.NotNil(t, resp.StartedAt)
		assert.Equal(t, []string{production.EventTypeStageChanged}, f.events.Types())
		f.orders.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backwards move rejected", func(t *testing.T) {
		f := setup()
		row, err := production.NewTracking(tenantID, uuid.New(), 0, "Armchair", 2, nil)
		require.NoError(t, err)
		require.NoError(t, row.AdvanceTo(production.StageFinishing, "", ""))
		f.tracking.On("FindByIDForTenant", ctx, tenantID, row.ID).Return(row, nil)

		_, err = f.svc.AdvanceStage(ctx, tenantID, row.ID, "jo", AdvanceStageRequest{Stage: "cutting"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.tracking.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("last completed item marks order ready", func(t *testing.T) {
		f := setup()
		order := orderInProduction(t, tenantID)
		done, err := production.NewTracking(tenantID, order.ID, 0, "Armchair", 1, nil)
		require.NoError(t, err)
		require.NoError(t, done.AdvanceTo(production.StageCompleted, "", ""))
		row, err := production.NewTracking(tenantID, order.ID, 1, "Footstool", 1, nil)
		require.NoError(t, err)
		require.NoError(t, row.AdvanceTo(production.StageQualityCheck, "", ""))
		row.ClearDomainEvents()

		f.tracking.On("FindByIDForTenant", ctx, tenantID, row.ID).Return(row, nil)
		f.tracking.On("Save", ctx, row).Return(nil)
		f.tracking.On("FindByOrder", ctx, tenantID, order.ID).Return([]production.Tracking{*done, *row}, nil)
		f.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
		f.orders.On("Save", ctx, order).Return(nil)

		resp, err := f.svc.AdvanceStage(ctx, tenantID, row.ID, "qc", AdvanceStageRequest{Stage: "completed"})
		require.NoError(t, err)
		assert.Equal(t, 100, resp.Progress)
		assert.NotNil(t, resp.CompletedAt)
		assert.Equal(t, orders.OrderStatusReady, order.Status)
		assert.Equal(t, []string{production.EventTypeStageChanged, orders.EventTypeOrderStatusChanged}, f.events.Types())
	})

	t.Run("order waits for remaining items", func(t *testing.T) {
		f := setup()
		orderID := uuid.New()
		row, err := production.NewTracking(tenantID, orderID, 0, "Armchair", 1, nil)
		require.NoError(t, err)
		other, err := production.NewTracking(tenantID, orderID, 1, "Footstool", 1, nil)
		require.NoError(t, err)

		f.tracking.On("FindByIDForTenant", ctx, tenantID, row.ID).Return(row, nil)
		f.tracking.On("Save", ctx, row).Return(nil)
		f.tracking.On("FindByOrder", ctx, tenantID, orderID).Return([]production.Tracking{*row, *other}, nil)

		_, err = f.svc.AdvanceStage(ctx, tenantID, row.ID, "qc", AdvanceStageRequest{Stage: "completed"})
		require.NoError(t, err)
		f.orders.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTrackingService_UpdateProgress(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := setup()
	row, err := production.NewTracking(tenantID, uuid.New(), 0, "Sofa", 1, nil)
	require.NoError(t, err)
	require.NoError(t, row.AdvanceTo(production.StageAssembly, "", ""))
	f.tracking.On("FindByIDForTenant", ctx, tenantID, row.ID).Return(row, nil)
	f.tracking.On("Save", ctx, row).Return(nil)

	resp, err := f.svc.UpdateProgress(ctx, tenantID, row.ID, UpdateProgressRequest{Progress: 45})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.Progress)

	_, err = f.svc.UpdateProgress(ctx, tenantID, row.ID, UpdateProgressRequest{Progress: 5})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PROGRESS", domainErr.Code)
}

func TestTrackingService_List(t *testing.T) {
	ctx := context.Background()
	tenantID, orderID := uuid.New(), uuid.New()
	f := setup()
	f.tracking.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Filters["order_id"] == orderID && fl.Filters["stage"] == "cutting"
	})).Return([]production.Tracking{}, nil)
	f.tracking.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)

	list, total, err := f.svc.List(ctx, tenantID, TrackingListFilter{OrderID: &orderID, Stage: "cutting"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}
