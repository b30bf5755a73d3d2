package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ngocrm/backend/internal/domain/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Save creates or updates an inventory item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"name":                item.Name,
			"description":         item.Description,
			"category_id":         item.CategoryID,
			"unit_of_measure":     item.UnitOfMeasure,
			"quantity_on_hand":    item.QuantityOnHand,
			"reorder_level":       item.ReorderLevel,
			"last_stocktake_date": item.LastStocktakeDate,
			"version":             item.Version,
			"updated_at":          item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an inventory item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads the item under a SELECT ... FOR UPDATE row lock.
// Must run inside a transaction; the lock is released on commit or rollback.
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds inventory items with filtering and pagination
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryItem], error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{})
	query = r.applyFilter(query, filter)
	return r.paginate(query, filter)
}

// FindBelowReorderLevel finds items whose quantity on hand is at or below
// their reorder level. Items with a zero reorder level are never included.
func (r *GormItemRepository) FindBelowReorderLevel(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryItem], error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("reorder_level > 0 AND quantity_on_hand <= reorder_level")
	query = r.applyFilter(query, filter)
	return r.paginate(query, filter)
}

// Delete deletes an inventory item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of inventory items
func (r *GormItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Count(&count).Error
	return count, err
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	return query
}

func (r *GormItemRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[inventory.InventoryItem], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	offset := (filter.Page - 1) * filter.PageSize

	var items []inventory.InventoryItem
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
