package persistence

import (
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, tenantID, customerID uuid.UUID, qty int, price int64) *orders.Order {
	t.Helper()
	productID := uuid.New()
	o, err := orders.NewOrder(tenantID, customerID, []orders.OrderItem{
		{ProductID: &productID, Description: "Oak sideboard", Quantity: qty, UnitPrice: decimal.NewFromInt(price)},
	}, decimal.Zero, decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	tenantID := uuid.New()
	customerA := uuid.New()
	customerB := uuid.New()

	draft := newTestOrder(t, tenantID, customerA, 2, 500)
	confirmed := newTestOrder(t, tenantID, customerA, 1, 900)
	require.NoError(t, confirmed.Confirm())
	cancelled := newTestOrder(t, tenantID, customerB, 3, 100)
	require.NoError(t, cancelled.Cancel())
	for _, o := range []*orders.Order{draft, confirmed, cancelled} {
		require.NoError(t, repo.Save(ctx, o))
	}

	t.Run("items round trip", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, draft.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Oak sideboard", found.Items[0].Description)
		assert.Equal(t, 2, found.Items[0].Quantity)
		assert.True(t, found.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)))
		assert.True(t, found.Total.Equal(draft.Total))
		assert.Equal(t, draft.OrderNumber, found.OrderNumber)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[orders.OrderStatusDraft])
		assert.Equal(t, int64(1), counts[orders.OrderStatusConfirmed])
		assert.Equal(t, int64(1), counts[orders.OrderStatusCancelled])
	})

	t.Run("created between excludes cancelled", func(t *testing.T) {
		now := time.Now()
		found, err := repo.FindCreatedBetween(ctx, tenantID, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, found, 2)
		for _, o := range found {
			assert.NotEqual(t, orders.OrderStatusCancelled, o.Status)
		}
	})

	t.Run("by customer since", func(t *testing.T) {
		found, err := repo.FindByCustomerSince(ctx, tenantID, customerA, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("status and customer filters", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = orders.OrderStatusConfirmed
		filter.Filters["customer_id"] = customerA
		found, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, confirmed.ID, found[0].ID)
		assert.NotNil(t, found[0].ConfirmedAt)
	})

	t.Run("search by order number", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = cancelled.OrderNumber
		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormOrderRepository_SaveWithTracking(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	tracking := NewGormTrackingRepository(db)
	tenantID := uuid.New()

	confirmedOrder := func(t *testing.T) *orders.Order {
		t.Helper()
		o, err := orders.NewOrder(tenantID, uuid.New(), []orders.OrderItem{
			{Description: "Sofa frame", Quantity: 1, UnitPrice: decimal.NewFromInt(1800)},
			{Description: "Seat cushion", Quantity: 3, UnitPrice: decimal.NewFromInt(120)},
		}, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, o.Confirm())
		require.NoError(t, repo.Save(ctx, o))
		return o
	}
	trackingFor := func(t *testing.T, o *orders.Order) []*production.Tracking {
		t.Helper()
		rows := make([]*production.Tracking, 0, len(o.Items))
		for i, item := range o.Items {
			row, err := production.NewTracking(tenantID, o.ID, i, item.Description, item.Quantity, o.DueDate)
			require.NoError(t, err)
			rows = append(rows, row)
		}
		return rows
	}
	started := func(t *testing.T, id uuid.UUID) *orders.Order {
		t.Helper()
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, id)
		require.NoError(t, err)
		require.NoError(t, loaded.StartProduction())
		return loaded
	}

	t.Run("order and rows are written together", func(t *testing.T) {
		o := confirmedOrder(t)
		loaded := started(t, o.ID)
		require.NoError(t, repo.SaveWithTracking(ctx, loaded, trackingFor(t, loaded)))

		stored, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusInProduction, stored.Status)
		rows, err := tracking.FindByOrder(ctx, tenantID, o.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("failed insert rolls back rows and order", func(t *testing.T) {
		o := confirmedOrder(t)
		existing := trackingFor(t, o)[1]
		require.NoError(t, tracking.Save(ctx, existing))

		loaded := started(t, o.ID)
		err := repo.SaveWithTracking(ctx, loaded, trackingFor(t, loaded))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		stored, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusConfirmed, stored.Status)
		rows, err := tracking.FindByOrder(ctx, tenantID, o.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1, "the row for item 0 was rolled back")
		assert.Equal(t, existing.ID, rows[0].ID)
	})
}
