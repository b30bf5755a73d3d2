package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of stock movement
type TransactionKind string

const (
	// KindIn represents stock coming in (deliveries, in-kind donations, returns)
	KindIn TransactionKind = "IN"
	// KindOut represents stock going out (distributions, project usage)
	KindOut TransactionKind = "OUT"
	// KindAdjustment represents a signed correction (stocktake variance, spoilage, loss)
	KindAdjustment TransactionKind = "ADJUSTMENT"
)

// String returns the string representation of the kind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid returns true if the transaction kind is known
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindIn, KindOut, KindAdjustment:
		return true
	}
	return false
}

// Effect returns the signed delta a movement applies to an item's quantity on
// hand. The same function drives both validation at record time and the ledger
// replay used for reconciliation, so sign conventions live in exactly one place:
//
//	IN         quantity must be > 0; delta = +quantity
//	OUT        quantity must be > 0; delta = -quantity
//	ADJUSTMENT quantity is the delta itself, positive or negative, nonzero
func Effect(kind TransactionKind, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case KindIn:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity for IN transactions must be positive")
		}
		return quantity, nil
	case KindOut:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity for OUT transactions must be positive")
		}
		return quantity.Neg(), nil
	case KindAdjustment:
		if quantity.IsZero() {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
		return quantity, nil
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Invalid transaction kind")
	}
}

// InventoryTransaction is an immutable record of a single stock movement.
// Once committed it is never updated or deleted; corrections are made by
// recording an offsetting ADJUSTMENT transaction.
type InventoryTransaction struct {
	shared.BaseEntity
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_item_time,priority:1"`
	Kind          TransactionKind `gorm:"type:varchar(10);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null"` // positive for IN/OUT, signed for ADJUSTMENT
	BalanceBefore decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RecordedBy    *uuid.UUID      `gorm:"type:uuid"` // actor reference, may be anonymous
	Note          string          `gorm:"type:text"`
	RecordedAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_inv_tx_item_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new ledger entry. Callers are expected to
// have validated the movement against the aggregate already (see Ledger.Record);
// this constructor only enforces structural rules.
func NewInventoryTransaction(
	itemID uuid.UUID,
	kind TransactionKind,
	quantity decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	recordedBy *uuid.UUID,
	note string,
) (*InventoryTransaction, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Invalid transaction kind")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance after transaction cannot be negative")
	}

	return &InventoryTransaction{
		BaseEntity:    shared.NewBaseEntity(),
		ItemID:        itemID,
		Kind:          kind,
		Quantity:      quantity,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		RecordedBy:    recordedBy,
		Note:          note,
		RecordedAt:    time.Now(),
	}, nil
}

// SignedQuantity returns the delta this transaction applied to the quantity on hand
func (t *InventoryTransaction) SignedQuantity() decimal.Decimal {
	delta, err := Effect(t.Kind, t.Quantity)
	if err != nil {
		// Committed transactions always carry a valid (kind, quantity) pair.
		return decimal.Zero
	}
	return delta
}
