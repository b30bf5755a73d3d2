package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem("Rice 25kg bags", nil, "bags", decimal.NewFromInt(5))
	require.NoError(t, err)
	return item
}

func TestLedger_Record(t *testing.T) {
	ledger := NewLedger()

	t.Run("IN increases quantity on hand", func(t *testing.T) {
		item := newTestItem(t)

		tx, err := ledger.Record(item, KindIn, decimal.NewFromInt(100), nil, "initial delivery")

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(100)))
		assert.True(t, tx.BalanceBefore.IsZero())
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, item.ID, tx.ItemID)
	})

	t.Run("OUT decreases quantity on hand", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(100), nil, "")
		require.NoError(t, err)

		tx, err := ledger.Record(item, KindOut, decimal.NewFromInt(30), nil, "distribution")

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(70)))
		assert.True(t, tx.BalanceBefore.Equal(decimal.NewFromInt(100)))
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(70)))
	})

	t.Run("OUT draining stock to exactly zero succeeds", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromFloat(10.50), nil, "")
		require.NoError(t, err)

		tx, err := ledger.Record(item, KindOut, decimal.NewFromFloat(10.50), nil, "")

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.IsZero())
		assert.True(t, tx.BalanceAfter.IsZero())
	})

	t.Run("OUT exceeding stock is rejected and leaves item untouched", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(10), nil, "")
		require.NoError(t, err)
		versionBefore := item.GetVersion()

		tx, err := ledger.Record(item, KindOut, decimal.NewFromFloat(10.01), nil, "")

		require.Error(t, err)
		assert.Nil(t, tx)
		var insufficientErr *InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(10)))
		assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromFloat(10.01)))
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, versionBefore, item.GetVersion())
	})

	t.Run("negative adjustment zeroing stock exactly succeeds", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(10), nil, "")
		require.NoError(t, err)

		tx, err := ledger.Record(item, KindAdjustment, decimal.NewFromInt(-10), nil, "stocktake write-off")

		require.NoError(t, err)
		assert.True(t, item.QuantityOnHand.IsZero())
		assert.True(t, tx.BalanceAfter.IsZero())
		require.NotNil(t, item.LastStocktakeDate)
	})

	t.Run("negative adjustment below zero is rejected", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(3), nil, "")
		require.NoError(t, err)

		_, err = ledger.Record(item, KindAdjustment, decimal.NewFromInt(-4), nil, "stocktake variance")

		require.Error(t, err)
		var insufficientErr *InsufficientStockError
		assert.ErrorAs(t, err, &insufficientErr)
		assert.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(3)))
	})

	t.Run("adjustment marks the stocktake date", func(t *testing.T) {
		item := newTestItem(t)
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(10), nil, "")
		require.NoError(t, err)
		assert.Nil(t, item.LastStocktakeDate)

		_, err = ledger.Record(item, KindAdjustment, decimal.NewFromInt(-2), nil, "spoilage")

		require.NoError(t, err)
		require.NotNil(t, item.LastStocktakeDate)
	})

	t.Run("zero quantity rejected for every kind", func(t *testing.T) {
		item := newTestItem(t)

		for _, kind := range []TransactionKind{KindIn, KindOut, KindAdjustment} {
			_, err := ledger.Record(item, kind, decimal.Zero, nil, "")
			assert.Error(t, err, "kind %s", kind)
		}
		assert.True(t, item.QuantityOnHand.IsZero())
	})

	t.Run("emits stock recorded event", func(t *testing.T) {
		item := newTestItem(t)

		tx, err := ledger.Record(item, KindIn, decimal.NewFromInt(100), nil, "")

		require.NoError(t, err)
		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		recorded, ok := events[0].(*StockRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, tx.ID, recorded.TransactionID)
		assert.Equal(t, EventTypeStockRecorded, recorded.EventType())
	})

	t.Run("emits reorder event when dropping to reorder level", func(t *testing.T) {
		item := newTestItem(t) // reorder level 5
		_, err := ledger.Record(item, KindIn, decimal.NewFromInt(10), nil, "")
		require.NoError(t, err)
		item.ClearDomainEvents()

		_, err = ledger.Record(item, KindOut, decimal.NewFromInt(5), nil, "")

		require.NoError(t, err)
		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		reorder, ok := events[1].(*StockBelowReorderLevelEvent)
		require.True(t, ok)
		assert.True(t, reorder.QuantityOnHand.Equal(decimal.NewFromInt(5)))
	})
}

func TestLedger_ReplayAndReconcile(t *testing.T) {
	ledger := NewLedger()

	t.Run("replay of the full ledger reproduces the live quantity", func(t *testing.T) {
		item := newTestItem(t)
		var txs []InventoryTransaction

		movements := []struct {
			kind TransactionKind
			qty  decimal.Decimal
		}{
			{KindIn, decimal.NewFromInt(100)},
			{KindOut, decimal.NewFromFloat(12.25)},
			{KindAdjustment, decimal.NewFromFloat(-0.75)},
			{KindIn, decimal.NewFromInt(40)},
			{KindOut, decimal.NewFromInt(27)},
		}
		for _, m := range movements {
			tx, err := ledger.Record(item, m.kind, m.qty, nil, "")
			require.NoError(t, err)
			txs = append(txs, *tx)
		}

		replayed, ok := ledger.Reconcile(item, txs)

		assert.True(t, ok)
		assert.True(t, replayed.Equal(item.QuantityOnHand))
		assert.True(t, replayed.Equal(decimal.NewFromFloat(100.00)))
	})

	t.Run("replay of empty ledger is zero", func(t *testing.T) {
		assert.True(t, ledger.Replay(nil).IsZero())
	})

	t.Run("reconcile detects drift", func(t *testing.T) {
		item := newTestItem(t)
		tx, err := ledger.Record(item, KindIn, decimal.NewFromInt(10), nil, "")
		require.NoError(t, err)

		// Simulate a quantity written outside the ledger path.
		item.QuantityOnHand = decimal.NewFromInt(11)

		replayed, ok := ledger.Reconcile(item, []InventoryTransaction{*tx})

		assert.False(t, ok)
		assert.True(t, replayed.Equal(decimal.NewFromInt(10)))
	})
}
