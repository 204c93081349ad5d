package persistence

import (
	"testing"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := testCtx()
	db := newTestDB(t)
	collections := NewGormCollectionRepository(db)
	repo := NewGormProductRepository(db)
	tenantA := uuid.New()
	tenantB := uuid.New()

	coll, err := catalog.NewCollection(tenantA, "Nordic", "Light oak pieces", "spring")
	require.NoError(t, err)
	require.NoError(t, collections.Save(ctx, coll))

	chair, err := catalog.NewProduct(tenantA, "chr-001", "Lounge Chair", decimal.NewFromInt(450))
	require.NoError(t, err)
	require.NoError(t, chair.SetSpecs("seating", "oak", "oiled", "70x80x90", 21))
	chair.AssignCollection(&coll.ID)
	table, err := catalog.NewProduct(tenantA, "TBL-001", "Dining Table", decimal.NewFromInt(1200))
	require.NoError(t, err)
	require.NoError(t, table.SetSpecs("tables", "walnut", "lacquer", "200x90x75", 35))
	table.SetActive(false)
	require.NoError(t, repo.Save(ctx, chair))
	require.NoError(t, repo.Save(ctx, table))

	t.Run("find by sku normalizes case", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, tenantA, " chr-001 ")
		require.NoError(t, err)
		assert.Equal(t, chair.ID, found.ID)
		assert.True(t, found.BasePrice.Equal(decimal.NewFromInt(450)))
		require.NotNil(t, found.CollectionID)
		assert.Equal(t, coll.ID, *found.CollectionID)
	})

	t.Run("duplicate sku in same tenant", func(t *testing.T) {
		dup, err := catalog.NewProduct(tenantA, "CHR-001", "Copy", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("same sku in another tenant", func(t *testing.T) {
		p, err := catalog.NewProduct(tenantB, "CHR-001", "Their chair", decimal.NewFromInt(99))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))

		exists, err := repo.ExistsBySKU(ctx, tenantB, "chr-001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("filters", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["active"] = "false"
		found, err := repo.FindAllForTenant(ctx, tenantA, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, table.ID, found[0].ID)
		assert.False(t, found[0].Active)

		filter = shared.DefaultFilter()
		filter.Filters["collection_id"] = coll.ID.String()
		count, err := repo.CountForTenant(ctx, tenantA, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		filter = shared.DefaultFilter()
		filter.Search = "walnut"
		found, err = repo.FindAllForTenant(ctx, tenantA, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Dining Table", found[0].Name)
	})

	t.Run("collections by season", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["season"] = "spring"
		found, err := collections.FindAllForTenant(ctx, tenantA, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Nordic", found[0].Name)
	})
}
