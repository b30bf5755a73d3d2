package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem represents a stock-keeping unit with its current quantity on hand.
// It is the aggregate root for stock operations.
//
// QuantityOnHand is a projection over the item's transaction ledger and is only
// ever mutated through the Ledger's Record path (applyMovement is unexported for
// that reason). Everything outside this package treats the quantity as read-only.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name              string          `gorm:"type:varchar(255);not null;index"`
	Description       string          `gorm:"type:text"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	UnitOfMeasure     string          `gorm:"type:varchar(50)"` // e.g. "pieces", "kg", "liters"
	QuantityOnHand    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ReorderLevel      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	LastStocktakeDate *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item with zero stock.
// Initial stock is established by recording an IN transaction afterwards.
func NewInventoryItem(name string, categoryID *uuid.UUID, unitOfMeasure string, reorderLevel decimal.Decimal) (*InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 255 characters")
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CategoryID:        categoryID,
		UnitOfMeasure:     unitOfMeasure,
		QuantityOnHand:    decimal.Zero,
		ReorderLevel:      reorderLevel,
	}, nil
}

// UpdateDetails updates the descriptive fields of the item.
// The quantity on hand is deliberately not part of this method.
func (i *InventoryItem) UpdateDetails(name, description string, categoryID *uuid.UUID, unitOfMeasure string, reorderLevel decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if reorderLevel.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	i.Name = name
	i.Description = description
	i.CategoryID = categoryID
	i.UnitOfMeasure = unitOfMeasure
	i.ReorderLevel = reorderLevel
	i.Touch(time.Now())
	i.IncrementVersion()
	return nil
}

// CanFulfill returns true if the quantity on hand covers the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.QuantityOnHand.GreaterThanOrEqual(quantity)
}

// IsBelowReorderLevel returns true if the item should be restocked
func (i *InventoryItem) IsBelowReorderLevel() bool {
	return i.ReorderLevel.GreaterThan(decimal.Zero) && i.QuantityOnHand.LessThanOrEqual(i.ReorderLevel)
}

// applyMovement applies a signed stock delta to the quantity on hand.
// Only the Ledger calls this; the resulting quantity must never be negative,
// which the Ledger guarantees by validating before applying.
func (i *InventoryItem) applyMovement(delta decimal.Decimal, at time.Time) {
	i.QuantityOnHand = i.QuantityOnHand.Add(delta)
	i.Touch(at)
	i.IncrementVersion()
}

// markStocktake records the date of the latest adjustment-producing count
func (i *InventoryItem) markStocktake(at time.Time) {
	d := at
	i.LastStocktakeDate = &d
}
