package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Assey1152/orders/internal/domain/catalog"
)

// ProductView is a buyer-facing listing projection
type ProductView struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Model       string            `json:"model"`
	Category    string            `json:"category"`
	Shop        string            `json:"shop"`
	ShopID      uuid.UUID         `json:"shop_id"`
	Quantity    int               `json:"quantity"`
	Price       decimal.Decimal   `json:"price"`
	RetailPrice decimal.Decimal   `json:"price_rrc"`
	Parameters  map[string]string `json:"parameters"`
}

// ShopView is a public shop projection
type ShopView struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// CategoryView is a public category projection
type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewProductView projects a listing with its preloaded associations
func NewProductView(listing *catalog.Listing) ProductView {
	view := ProductView{
		ID:          listing.ID,
		Model:       listing.Model,
		Quantity:    listing.Quantity,
		Price:       listing.Price,
		RetailPrice: listing.RetailPrice,
		Parameters:  make(map[string]string, len(listing.Parameters)),
	}
	if listing.Product != nil {
		view.Name = listing.Product.Name
		if listing.Product.Category != nil {
			view.Category = listing.Product.Category.Name
		}
	}
	if listing.Shop != nil {
		view.Shop = listing.Shop.Name
		view.ShopID = listing.Shop.ID
	}
	for _, lp := range listing.Parameters {
		if lp.Parameter != nil {
			view.Parameters[lp.Parameter.Name] = lp.Value
		}
	}
	return view
}

// NewShopView projects a shop
func NewShopView(shop *catalog.Shop) ShopView {
	return ShopView{ID: shop.ID, Name: shop.Name, Active: shop.Active}
}

// NewCategoryView projects a category
func NewCategoryView(category *catalog.Category) CategoryView {
	return CategoryView{ID: category.ID, Name: category.Name}
}
