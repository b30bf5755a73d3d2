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

// GormCategoryRepository implements inventory.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *inventory.InventoryCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryCategory, error) {
	var category inventory.InventoryCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by its exact name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*inventory.InventoryCategory, error) {
	var category inventory.InventoryCategory
	if err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds categories with pagination
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryCategory], error) {
	query := r.db.WithContext(ctx).Model(&inventory.InventoryCategory{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CategorySortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	offset := (filter.Page - 1) * filter.PageSize

	var categories []inventory.InventoryCategory
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(categories, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.CategoryRepository = (*GormCategoryRepository)(nil)
