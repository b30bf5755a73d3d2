package inventory

import (
	"strings"
	"time"

	"github.com/ngocrm/backend/internal/domain/shared"
)

// InventoryCategory groups inventory items (e.g. "Food", "Medical supplies").
// Categories are plain reference data; they carry no stock semantics.
type InventoryCategory struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryCategory) TableName() string {
	return "inventory_categories"
}

// NewInventoryCategory creates a new category
func NewInventoryCategory(name, description string) (*InventoryCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &InventoryCategory{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

// Rename changes the category name
func (c *InventoryCategory) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.Touch(time.Now())
	return nil
}
