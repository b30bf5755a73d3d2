package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates item with zero stock", func(t *testing.T) {
		catID := uuid.New()
		item, err := NewInventoryItem("Rice 25kg bags", &catID, "bags", decimal.NewFromInt(20))

		require.NoError(t, err)
		assert.Equal(t, "Rice 25kg bags", item.Name)
		assert.Equal(t, &catID, item.CategoryID)
		assert.Equal(t, "bags", item.UnitOfMeasure)
		assert.True(t, item.QuantityOnHand.IsZero())
		assert.True(t, item.ReorderLevel.Equal(decimal.NewFromInt(20)))
		assert.Nil(t, item.LastStocktakeDate)
		assert.Equal(t, 1, item.GetVersion())
		assert.NotEqual(t, uuid.Nil, item.ID)
	})

	t.Run("trims whitespace from name", func(t *testing.T) {
		item, err := NewInventoryItem("  Blankets  ", nil, "pieces", decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, "Blankets", item.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewInventoryItem("   ", nil, "pieces", decimal.Zero)

		assert.Error(t, err)
	})

	t.Run("rejects negative reorder level", func(t *testing.T) {
		_, err := NewInventoryItem("Blankets", nil, "pieces", decimal.NewFromInt(-1))

		assert.Error(t, err)
	})
}

func TestInventoryItem_UpdateDetails(t *testing.T) {
	t.Run("updates descriptive fields and bumps version", func(t *testing.T) {
		item, err := NewInventoryItem("Blankets", nil, "pieces", decimal.Zero)
		require.NoError(t, err)

		catID := uuid.New()
		err = item.UpdateDetails("Wool blankets", "Winter distribution", &catID, "pieces", decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.Equal(t, "Wool blankets", item.Name)
		assert.Equal(t, "Winter distribution", item.Description)
		assert.True(t, item.ReorderLevel.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, 2, item.GetVersion())
	})

	t.Run("does not touch quantity on hand", func(t *testing.T) {
		item, err := NewInventoryItem("Blankets", nil, "pieces", decimal.Zero)
		require.NoError(t, err)
		before := item.QuantityOnHand

		err = item.UpdateDetails("Wool blankets", "", nil, "pieces", decimal.Zero)

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(before))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		item, err := NewInventoryItem("Blankets", nil, "pieces", decimal.Zero)
		require.NoError(t, err)

		err = item.UpdateDetails("", "", nil, "pieces", decimal.Zero)

		assert.Error(t, err)
	})
}

func TestInventoryItem_IsBelowReorderLevel(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int64
		reorderLevel int64
		expected     bool
	}{
		{"above reorder level", 100, 20, false},
		{"exactly at reorder level", 20, 20, true},
		{"below reorder level", 5, 20, true},
		{"zero reorder level never triggers", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewInventoryItem("Rice", nil, "bags", decimal.NewFromInt(tt.reorderLevel))
			require.NoError(t, err)
			item.QuantityOnHand = decimal.NewFromInt(tt.quantity)

			assert.Equal(t, tt.expected, item.IsBelowReorderLevel())
		})
	}
}

func TestInventoryItem_CanFulfill(t *testing.T) {
	item, err := NewInventoryItem("Rice", nil, "bags", decimal.Zero)
	require.NoError(t, err)
	item.QuantityOnHand = decimal.NewFromFloat(10.50)

	assert.True(t, item.CanFulfill(decimal.NewFromFloat(10.50)))
	assert.True(t, item.CanFulfill(decimal.NewFromInt(10)))
	assert.False(t, item.CanFulfill(decimal.NewFromFloat(10.51)))
}
