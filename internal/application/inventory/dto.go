package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	CategoryID          *uuid.UUID      `json:"category_id,omitempty"`
	UnitOfMeasure       string          `json:"unit_of_measure"`
	QuantityOnHand      decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel        decimal.Decimal `json:"reorder_level"`
	IsBelowReorderLevel bool            `json:"is_below_reorder_level"`
	LastStocktakeDate   *time.Time      `json:"last_stocktake_date,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ToItemResponse converts a domain item to an ItemResponse
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                  item.ID,
		Name:                item.Name,
		Description:         item.Description,
		CategoryID:          item.CategoryID,
		UnitOfMeasure:       item.UnitOfMeasure,
		QuantityOnHand:      item.QuantityOnHand,
		ReorderLevel:        item.ReorderLevel,
		IsBelowReorderLevel: item.IsBelowReorderLevel(),
		LastStocktakeDate:   item.LastStocktakeDate,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
		Version:             item.GetVersion(),
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a CategoryResponse
func ToCategoryResponse(category *inventory.InventoryCategory) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	SignedQuantity decimal.Decimal `json:"signed_quantity"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	RecordedBy     *uuid.UUID      `json:"recorded_by,omitempty"`
	Note           string          `json:"note,omitempty"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// ToTransactionResponse converts a domain transaction to a TransactionResponse
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID,
		ItemID:         tx.ItemID,
		Kind:           tx.Kind.String(),
		Quantity:       tx.Quantity,
		SignedQuantity: tx.SignedQuantity(),
		BalanceBefore:  tx.BalanceBefore,
		BalanceAfter:   tx.BalanceAfter,
		RecordedBy:     tx.RecordedBy,
		Note:           tx.Note,
		RecordedAt:     tx.RecordedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// RecordTransactionResponse pairs the new ledger entry with the updated item
// so the caller sees the resulting balance without a second round trip
type RecordTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Item        ItemResponse        `json:"item"`
}

// ReconciliationResponse reports whether an item's live quantity matches the
// fold of its ledger
type ReconciliationResponse struct {
	ItemID           uuid.UUID       `json:"item_id"`
	QuantityOnHand   decimal.Decimal `json:"quantity_on_hand"`
	ReplayedQuantity decimal.Decimal `json:"replayed_quantity"`
	TransactionCount int64           `json:"transaction_count"`
	Consistent       bool            `json:"consistent"`
}

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"max=50"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest represents a request to update an item's descriptive fields.
// The quantity on hand cannot be set here; it only moves through transactions.
type UpdateItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"max=50"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// RecordTransactionRequest represents a request to append a ledger entry
type RecordTransactionRequest struct {
	Kind           string          `json:"kind" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	RecordedBy     *uuid.UUID      `json:"recorded_by"`
	Note           string          `json:"note" binding:"max=1000"`
	IdempotencyKey string          `json:"-"` // taken from the Idempotency-Key header
}

// ItemListFilter represents filter options for item lists
type ItemListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransactionListFilter represents filter options for an item's ledger
type TransactionListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
