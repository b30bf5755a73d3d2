package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockItemRepo creates a repository backed by sqlmock so we can assert the
// exact SQL GORM emits against postgres, which sqlite cannot exercise.
func newMockItemRepo(t *testing.T) (*GormItemRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

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

	return NewGormItemRepository(gormDB), mock, mockDB
}

func mockItemRows(item *inventory.InventoryItem) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"name", "description", "category_id", "unit_of_measure",
		"quantity_on_hand", "reorder_level", "last_stocktake_date",
	}).AddRow(
		item.ID, item.CreatedAt, item.UpdatedAt, item.Version,
		item.Name, item.Description, nil, item.UnitOfMeasure,
		item.QuantityOnHand.String(), item.ReorderLevel.String(), nil,
	)
}

func TestGormItemRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("emits a FOR UPDATE row lock", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepo(t)
		defer mockDB.Close()

		item := newTestItem(t, "Rice", 0)

		mock.ExpectQuery(`SELECT .* FROM "inventory_items" WHERE id = .* FOR UPDATE`).
			WillReturnRows(mockItemRows(item))

		found, err := repo.FindByIDForUpdate(context.Background(), item.ID)

		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepo(t)
		defer mockDB.Close()

		item := newTestItem(t, "Rice", 0)

		mock.ExpectQuery(`SELECT .* FROM "inventory_items" WHERE id = .* FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByIDForUpdate(context.Background(), item.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when the stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepo(t)
		defer mockDB.Close()

		item := newTestItem(t, "Rice", 0)
		item.QuantityOnHand = decimal.NewFromInt(70)
		item.Version = 2 // domain operation already incremented

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns concurrency conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepo(t)
		defer mockDB.Close()

		item := newTestItem(t, "Rice", 0)
		item.Version = 2

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), item)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepo(t)
		defer mockDB.Close()

		item := newTestItem(t, "Rice", 0)
		item.Version = 2

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnError(assert.AnError)

		err := repo.SaveWithLock(context.Background(), item)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
