package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&inventory.InventoryCategory{},
		&inventory.InventoryItem{},
		&inventory.InventoryTransaction{},
	)
	require.NoError(t, err)

	return db
}

func newTestItem(t *testing.T, name string, reorderLevel int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(name, nil, "pieces", decimal.NewFromInt(reorderLevel))
	require.NoError(t, err)
	return item
}

func TestGormItemRepository_SaveAndFind(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	t.Run("saves and retrieves an item", func(t *testing.T) {
		item := newTestItem(t, "Rice 25kg bags", 20)
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, "Rice 25kg bags", found.Name)
		assert.True(t, found.QuantityOnHand.IsZero())
		assert.True(t, found.ReorderLevel.Equal(decimal.NewFromInt(20)))
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_FindBelowReorderLevel(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	low := newTestItem(t, "Rice", 20)
	low.QuantityOnHand = decimal.NewFromInt(15)
	require.NoError(t, repo.Save(ctx, low))

	ok := newTestItem(t, "Beans", 20)
	ok.QuantityOnHand = decimal.NewFromInt(100)
	require.NoError(t, repo.Save(ctx, ok))

	// Zero reorder level means no threshold, even at zero stock.
	noThreshold := newTestItem(t, "Tents", 0)
	require.NoError(t, repo.Save(ctx, noThreshold))

	result, err := repo.FindBelowReorderLevel(ctx, shared.DefaultFilter())

	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	assert.Equal(t, low.ID, result.Items[0].ID)
}

func TestGormItemRepository_Delete(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	item := newTestItem(t, "Rice", 0)
	require.NoError(t, repo.Save(ctx, item))

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err := repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, item.ID), shared.ErrNotFound)
}

func TestGormItemRepository_Count(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestItem(t, "Rice", 0)))
	require.NoError(t, repo.Save(ctx, newTestItem(t, "Beans", 0)))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
