package catalog

import (
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is a vendor's offer of a product: price, stock and the vendor's
// own SKU identifier. Listings are replaced wholesale on every feed import.
type Listing struct {
	shared.BaseEntity
	ProductID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_listing_product_shop_ext,priority:1"`
	Product     *Product           `gorm:"foreignKey:ProductID"`
	ShopID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_listing_product_shop_ext,priority:2;index"`
	Shop        *Shop              `gorm:"foreignKey:ShopID"`
	Model       string             `gorm:"type:varchar(80)"`
	ExternalID  int64              `gorm:"not null;uniqueIndex:idx_listing_product_shop_ext,priority:3"`
	Quantity    int                `gorm:"not null"`
	Price       decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	RetailPrice decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Parameters  []ListingParameter `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a new listing for a product in a shop
func NewListing(productID, shopID uuid.UUID, externalID int64, model string, quantity int, price, retailPrice decimal.Decimal) (*Listing, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if externalID <= 0 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID must be positive")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if price.IsNegative() || retailPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Listing{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ShopID:      shopID,
		Model:       model,
		ExternalID:  externalID,
		Quantity:    quantity,
		Price:       price,
		RetailPrice: retailPrice,
	}, nil
}

// AddParameter attaches a parameter value to the listing.
// Duplicate parameters on one listing are rejected.
func (l *Listing) AddParameter(parameterID uuid.UUID, value string) error {
	if parameterID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARAMETER", "Parameter ID cannot be empty")
	}
	for _, p := range l.Parameters {
		if p.ParameterID == parameterID {
			return shared.NewDomainError("DUPLICATE_PARAMETER", "Parameter already set on this listing")
		}
	}
	l.Parameters = append(l.Parameters, ListingParameter{
		BaseEntity:  shared.NewBaseEntity(),
		ListingID:   l.ID,
		ParameterID: parameterID,
		Value:       value,
	})
	return nil
}
