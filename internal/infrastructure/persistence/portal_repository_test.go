package persistence

import (
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormThreadRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormThreadRepository(db)
	tenantID := uuid.New()
	customerID := uuid.New()
	staffID := uuid.New()

	thread, err := portal.NewThread(tenantID, customerID, "Fabric swatches", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, thread))

	first, err := thread.PostMessage(portal.SenderCustomer, customerID, "Can I see the linen options?", nil)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithMessage(ctx, thread, first))

	second, err := thread.PostMessage(portal.SenderStaff, staffID, "Sending them over", []string{"portal/a.jpg"})
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithMessage(ctx, thread, second))

	t.Run("messages in posting order", func(t *testing.T) {
		msgs, err := repo.FindMessages(ctx, tenantID, thread.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, first.ID, msgs[0].ID)
		assert.Equal(t, portal.SenderStaff, msgs[1].SenderType)
		assert.Equal(t, []string{"portal/a.jpg"}, msgs[1].AttachmentKeys)
		assert.Empty(t, msgs[0].AttachmentKeys)
	})

	t.Run("thread counters persist", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.UnreadByStaff)
		assert.Equal(t, 1, found.UnreadByCustomer)
		assert.WithinDuration(t, second.CreatedAt, found.LastMessageAt, time.Millisecond)
	})

	t.Run("messages are tenant scoped", func(t *testing.T) {
		msgs, err := repo.FindMessages(ctx, uuid.New(), thread.ID)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("customer filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["customer_id"] = customerID
		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
