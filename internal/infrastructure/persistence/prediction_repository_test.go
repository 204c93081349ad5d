package persistence

import (
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/prediction"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPredictionRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	repo := NewGormPredictionRepository(db)
	tenantID := uuid.New()
	customerID := uuid.New()

	older := prediction.NewPrediction(tenantID, prediction.TypeChurn, "customer", &customerID, map[string]any{"risk": "low"}, 0.4)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := prediction.NewPrediction(tenantID, prediction.TypeChurn, "customer", &customerID, map[string]any{"risk": "high"}, 0.85)
	demand := prediction.NewPrediction(tenantID, prediction.TypeDemand, "tenant", nil, map[string]any{"units": 42.0}, 0.6)
	for _, p := range []*prediction.Prediction{older, newer, demand} {
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("latest for subject", func(t *testing.T) {
		found, err := repo.FindLatest(ctx, tenantID, prediction.TypeChurn, &customerID)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID)
		assert.Equal(t, "high", found.Result["risk"])
		assert.InDelta(t, 0.85, found.Confidence, 0.0001)
	})

	t.Run("latest tenant wide", func(t *testing.T) {
		found, err := repo.FindLatest(ctx, tenantID, prediction.TypeDemand, nil)
		require.NoError(t, err)
		assert.Equal(t, demand.ID, found.ID)
		assert.Nil(t, found.SubjectID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindLatest(ctx, tenantID, prediction.TypeRevenue, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("type filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["type"] = prediction.TypeChurn
		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
