package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/shared"
)

// ItemRepository defines the persistence interface for inventory items
type ItemRepository interface {
	Save(ctx context.Context, item *InventoryItem) error
	// SaveWithLock persists the item only if its stored version still matches,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate loads the item under a row-level write lock. It must be
	// called inside a TransactionScope; the lock is held until the scope ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[InventoryItem], error)
	FindBelowReorderLevel(ctx context.Context, filter shared.Filter) (*shared.Paginated[InventoryItem], error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines the persistence interface for inventory categories
type CategoryRepository interface {
	Save(ctx context.Context, category *InventoryCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryCategory, error)
	FindByName(ctx context.Context, name string) (*InventoryCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[InventoryCategory], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the persistence interface for the transaction
// ledger. It is append-only: there is deliberately no Update or Delete. Wrong
// entries are corrected by appending an offsetting ADJUSTMENT.
type TransactionRepository interface {
	Create(ctx context.Context, tx *InventoryTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)
	// FindByItem returns the item's ledger newest-first for display.
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) (*shared.Paginated[InventoryTransaction], error)
	// FindByItemInCommitOrder returns the item's full ledger oldest-first,
	// the order required for replay and reconciliation.
	FindByItemInCommitOrder(ctx context.Context, itemID uuid.UUID) ([]InventoryTransaction, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}
