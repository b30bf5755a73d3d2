package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ledger is the append-only authority over stock movements. It is the only
// component allowed to change an item's quantity on hand: it validates a
// proposed movement against the aggregate's current state, applies it, and
// produces the immutable transaction record. Persistence of both sides as one
// atomic unit is the application layer's job (see TransactionScope).
type Ledger struct{}

// NewLedger creates a new Ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record validates and applies a stock movement to the item, returning the
// ledger entry describing it. On any validation failure the item is left
// untouched and no entry is produced.
//
// The resulting quantity on hand is guaranteed to be >= 0.
func (l *Ledger) Record(
	item *InventoryItem,
	kind TransactionKind,
	quantity decimal.Decimal,
	recordedBy *uuid.UUID,
	note string,
) (*InventoryTransaction, error) {
	if item == nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Inventory item cannot be nil")
	}

	delta, err := Effect(kind, quantity)
	if err != nil {
		return nil, err
	}

	if delta.IsNegative() && item.QuantityOnHand.LessThan(delta.Abs()) {
		return nil, NewInsufficientStockError(item.QuantityOnHand, delta.Abs())
	}

	now := time.Now()
	balanceBefore := item.QuantityOnHand
	item.applyMovement(delta, now)
	if kind == KindAdjustment {
		item.markStocktake(now)
	}

	tx, err := NewInventoryTransaction(item.ID, kind, quantity, balanceBefore, item.QuantityOnHand, recordedBy, note)
	if err != nil {
		return nil, err
	}

	item.AddDomainEvent(NewStockRecordedEvent(item, tx))
	if item.IsBelowReorderLevel() {
		item.AddDomainEvent(NewStockBelowReorderLevelEvent(item))
	}

	return tx, nil
}

// Replay folds the signed effects of transactions in commit order and returns
// the resulting quantity. Given an item's full ledger it must reproduce the
// item's live quantity on hand exactly.
func (l *Ledger) Replay(transactions []InventoryTransaction) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		total = total.Add(transactions[i].SignedQuantity())
	}
	return total
}

// Reconcile checks an item's live quantity against the fold of its full ledger.
// It returns the replayed quantity and whether it matches the aggregate.
func (l *Ledger) Reconcile(item *InventoryItem, transactions []InventoryTransaction) (decimal.Decimal, bool) {
	replayed := l.Replay(transactions)
	return replayed, replayed.Equal(item.QuantityOnHand)
}
