package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ListingFilter narrows listing queries. Nil fields are ignored; all
// set fields are AND-ed together. Visibility of inactive shops is always
// applied by the repository regardless of the filter.
type ListingFilter struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
}

// ShopRepository defines the interface for shop persistence
type ShopRepository interface {
	// FindByID finds a shop by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	// FindByName finds a shop by its unique name
	FindByName(ctx context.Context, name string) (*Shop, error)
	// FindByOwner finds the shop bound to a vendor user
	FindByOwner(ctx context.Context, userID uuid.UUID) (*Shop, error)
	// FindActive lists all shops visible to buyers
	FindActive(ctx context.Context) ([]Shop, error)
	// Save creates or updates a shop
	Save(ctx context.Context, shop *Shop) error
	// AttachCategory adds a category to the shop's category set
	AttachCategory(ctx context.Context, shop *Shop, category *Category) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// FindByName finds a category by its unique name
	FindByName(ctx context.Context, name string) (*Category, error)
	// FindAll lists all categories
	FindAll(ctx context.Context) ([]Category, error)
	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByCategoryAndName finds a product by its natural key
	FindByCategoryAndName(ctx context.Context, categoryID uuid.UUID, name string) (*Product, error)
	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	// FindByID finds a listing by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	// FindByIDs finds listings by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	// FindVisible lists listings of active shops matching the filter,
	// with product, category, shop and parameters preloaded
	FindVisible(ctx context.Context, filter ListingFilter) ([]Listing, error)
	// DeleteByShop removes every listing of a shop together with its parameters
	DeleteByShop(ctx context.Context, shopID uuid.UUID) error
	// Save creates or updates a listing together with its parameters
	Save(ctx context.Context, listing *Listing) error
}

// ParameterRepository defines the interface for parameter persistence
type ParameterRepository interface {
	// FindByName finds a parameter by its unique name
	FindByName(ctx context.Context, name string) (*Parameter, error)
	// Save creates or updates a parameter
	Save(ctx context.Context, parameter *Parameter) error
}
