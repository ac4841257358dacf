package catalog

import (
	"github.com/Assey1152/orders/internal/domain/shared"
)

// Category groups products across shops. Categories are global: the same
// category can be sold by multiple shops, so the relation to Shop is
// many-to-many and accumulates as vendors import feeds.
type Category struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(60);not null;uniqueIndex"`
	Shops []Shop `gorm:"many2many:shop_categories"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 60 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 60 characters")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
