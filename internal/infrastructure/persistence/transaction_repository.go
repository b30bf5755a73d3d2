package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionRepository implements inventory.TransactionRepository using GORM.
// The ledger is append-only, so the repository exposes no update or delete path.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a new ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByID finds a ledger entry by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByItem returns an item's ledger newest-first by default, with
// pagination and a whitelisted sort field
func (r *GormTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.InventoryTransaction], error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
		Where("item_id = ?", itemID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	sortField := ValidateSortField(filter.OrderBy, TransactionSortFields, "recorded_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var txs []inventory.InventoryTransaction
	if err := query.
		Order(fmt.Sprintf("%s %s, created_at %s", sortField, sortOrder, sortOrder)).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&txs).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(txs, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// FindByItemInCommitOrder returns an item's full ledger oldest-first, the
// order required for replaying balances
func (r *GormTransactionRepository) FindByItemInCommitOrder(ctx context.Context, itemID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("recorded_at ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CountByItem returns the number of ledger entries for an item
func (r *GormTransactionRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
