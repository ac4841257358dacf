package catalog

import (
	"github.com/Assey1152/orders/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeShopStateChanged = "catalog.shop.state_changed"
	EventTypeCatalogImported  = "catalog.feed.imported"
)

// ShopStateChangedEvent is raised when a vendor toggles its shop visibility
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopName string `json:"shop_name"`
	Active   bool   `json:"active"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, "Shop", shop.ID),
		ShopName:        shop.Name,
		Active:          shop.Active,
	}
}

// CatalogImportedEvent is raised after a vendor feed has been imported
type CatalogImportedEvent struct {
	shared.BaseDomainEvent
	ShopName   string `json:"shop_name"`
	Categories int    `json:"categories"`
	Listings   int    `json:"listings"`
	Parameters int    `json:"parameters"`
}

// NewCatalogImportedEvent creates a new CatalogImportedEvent
func NewCatalogImportedEvent(shop *Shop, categories, listings, parameters int) *CatalogImportedEvent {
	return &CatalogImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogImported, "Shop", shop.ID),
		ShopName:        shop.Name,
		Categories:      categories,
		Listings:        listings,
		Parameters:      parameters,
	}
}
