package design

import (
	"context"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/design"
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

func setupReviewService() (*ReviewService, *testutil.MockReviewRepository, *testutil.MockOrderRepository) {
	reviews := new(testutil.MockReviewRepository)
	orderRepo := new(testutil.MockOrderRepository)
	return NewReviewService(reviews, orderRepo, zap.NewNop()), reviews, orderRepo
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()
	at := time.Now().Add(48 * time.Hour)

	t.Run("success", func(t *testing.T) {
		svc, reviews, orderRepo := setupReviewService()
		order, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{
			{Description: "Bench", Quantity: 1, UnitPrice: decimal.NewFromInt(400)},
		}, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		orderRepo.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
		reviews.On("Save", ctx, mock.AnythingOfType("*design.FactoryReview")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, actorID, CreateReviewRequest{
			OrderID:     order.ID,
			ScheduledAt: at,
			Reviewer:    " Ana Ruiz ",
			Location:    "Workshop B",
		})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", resp.Status)
		assert.Equal(t, "Ana Ruiz", resp.Reviewer)
		assert.Empty(t, resp.Findings)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, reviews, orderRepo := setupReviewService()
		missing := uuid.New()
		orderRepo.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, actorID, CreateReviewRequest{OrderID: missing, ScheduledAt: at})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ORDER", domainErr.Code)
		reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReviewService_Session(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, reviews, _ := setupReviewService()
	review, err := design.NewFactoryReview(tenantID, uuid.New(), time.Now().Add(time.Hour), "Ana", "Workshop B")
	require.NoError(t, err)
	reviews.On("FindByIDForTenant", ctx, tenantID, review.ID).Return(review, nil)
	reviews.On("Save", ctx, review).Return(nil)

	_, err = svc.AddFinding(ctx, tenantID, review.ID, AddFindingRequest{Item: "Leg", Severity: "minor"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	later := time.Now().Add(3 * time.Hour)
	resp, err := svc.Update(ctx, tenantID, review.ID, UpdateReviewRequest{ScheduledAt: &later})
	require.NoError(t, err)
	assert.True(t, later.Equal(resp.ScheduledAt))
	assert.Equal(t, "Ana", resp.Reviewer)

	_, err = svc.Start(ctx, tenantID, review.ID)
	require.NoError(t, err)

	_, err = svc.AddFinding(ctx, tenantID, review.ID, AddFindingRequest{Item: "Table top", Severity: "critical", Note: "Split along grain"})
	require.NoError(t, err)
	_, err = svc.AddFinding(ctx, tenantID, review.ID, AddFindingRequest{Item: "Drawer", Severity: "minor"})
	require.NoError(t, err)

	resp, err = svc.Complete(ctx, tenantID, review.ID, CompleteReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "rework_required", resp.Outcome)
	assert.Len(t, resp.Findings, 2)

	_, err = svc.Cancel(ctx, tenantID, review.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = svc.Delete(ctx, tenantID, review.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	reviews.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_List(t *testing.T) {
	ctx := context.Background()
	tenantID, orderID := uuid.New(), uuid.New()
	svc, reviews, _ := setupReviewService()
	reviews.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["order_id"] == orderID && f.Filters["status"] == "scheduled"
	})).Return([]design.FactoryReview{}, nil)
	reviews.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)

	list, total, err := svc.List(ctx, tenantID, ReviewListFilter{OrderID: &orderID, Status: "scheduled"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}
