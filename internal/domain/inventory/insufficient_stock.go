package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when an OUT or negative ADJUSTMENT would
// drive the quantity on hand below zero. It carries the available and requested
// amounts so callers can decide between partial fulfillment, backorder or abort.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s available, %s requested", e.Available.String(), e.Requested.String())
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(available, requested decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{Available: available, Requested: requested}
}
