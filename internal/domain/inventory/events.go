package inventory

import (
	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory domain
const (
	EventTypeStockRecorded          = "inventory.stock_recorded"
	EventTypeStockBelowReorderLevel = "inventory.stock_below_reorder_level"
)

// StockRecordedEvent is emitted for every committed ledger transaction
type StockRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	ItemName      string          `json:"item_name"`
	Kind          TransactionKind `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// NewStockRecordedEvent creates a StockRecordedEvent
func NewStockRecordedEvent(item *InventoryItem, tx *InventoryTransaction) *StockRecordedEvent {
	return &StockRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRecorded, "InventoryItem", item.ID),
		TransactionID:   tx.ID,
		ItemName:        item.Name,
		Kind:            tx.Kind,
		Quantity:        tx.Quantity,
		BalanceAfter:    tx.BalanceAfter,
	}
}

// StockBelowReorderLevelEvent is emitted when a committed transaction leaves the
// quantity on hand at or below the item's reorder level
type StockBelowReorderLevelEvent struct {
	shared.BaseDomainEvent
	ItemName       string          `json:"item_name"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
}

// NewStockBelowReorderLevelEvent creates a StockBelowReorderLevelEvent
func NewStockBelowReorderLevelEvent(item *InventoryItem) *StockBelowReorderLevelEvent {
	return &StockBelowReorderLevelEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderLevel, "InventoryItem", item.ID),
		ItemName:        item.Name,
		QuantityOnHand:  item.QuantityOnHand,
		ReorderLevel:    item.ReorderLevel,
	}
}
