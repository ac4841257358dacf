package catalog

import (
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Product is an abstract catalog item belonging to exactly one category.
// Vendor-specific offers of a product live in Listing.
type Product struct {
	shared.BaseEntity
	Name       string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_product_category_name,priority:2"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_category_name,priority:1"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in the given category
func NewProduct(categoryID uuid.UUID, name string) (*Product, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 80 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 80 characters")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}
