package tenant

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"size:100"`
}

func (TestModel) TableName() string {
	return "test_models"
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func createTestContext(tenantID string) context.Context {
	ctx := context.Background()
	if tenantID != "" {
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, tenantID)
	}
	return ctx
}

func TestScope(t *testing.T) {
	tenantID := uuid.New()

	t.Run("applies tenant filter to query", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var results []TestModel
		require.NoError(t, db.Scopes(Scope(tenantID)).Find(&results).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil tenant fails without querying", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []TestModel
		err := db.Scopes(Scope(uuid.Nil)).Find(&results).Error
		assert.ErrorIs(t, err, ErrTenantIDRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFromContext(t *testing.T) {
	tenantID := uuid.New()

	id, err := FromContext(createTestContext(tenantID.String()))
	require.NoError(t, err)
	assert.Equal(t, tenantID, id)

	_, err = FromContext(context.Background())
	assert.ErrorIs(t, err, ErrTenantIDRequired)

	_, err = FromContext(createTestContext("not-a-uuid"))
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestTenantDB_WithContext(t *testing.T) {
	t.Run("scopes by tenant from context", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).
				AddRow(uuid.New(), tenantID, "sofa"))

		var results []TestModel
		err := NewTenantDB(db).WithContext(createTestContext(tenantID.String())).Find(&results).Error
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("errors without tenant", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []TestModel
		err := NewTenantDB(db).WithContext(context.Background()).Find(&results).Error
		assert.ErrorIs(t, err, ErrTenantIDRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("errors with malformed tenant", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []TestModel
		err := NewTenantDB(db).WithContext(createTestContext("bogus")).Find(&results).Error
		assert.ErrorIs(t, err, ErrInvalidTenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTenantDB_ForTenant(t *testing.T) {
	db, mock, mockDB := setupMockDB(t)
	defer mockDB.Close()
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "test_models" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	var count int64
	require.NoError(t, NewTenantDB(db).ForTenant(context.Background(), tenantID).Model(&TestModel{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
	assert.Same(t, db, NewTenantDB(db).Unscoped())
	assert.NoError(t, mock.ExpectationsWereMet())
}
