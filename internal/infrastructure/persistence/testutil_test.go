package persistence

import (
	"context"
	"testing"

	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with every model migrated.
// Composite unique indexes live in the SQL migrations, so they are created here by hand.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX uq_products_tenant_sku ON products (tenant_id, sku)",
		"CREATE UNIQUE INDEX uq_orders_tenant_number ON orders (tenant_id, order_number)",
		"CREATE UNIQUE INDEX uq_invoices_tenant_number ON invoices (tenant_id, invoice_number)",
		"CREATE UNIQUE INDEX uq_tracking_order_item ON production_tracking (order_id, item_index)",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testCtx() context.Context {
	return context.Background()
}
