package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with items and listing detail preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUser finds an order owned by the given buyer
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	// FindOrCreateBasket returns the buyer's open basket, creating it when
	// absent. Runs inside a transaction so concurrent first adds converge
	// on a single basket row.
	FindOrCreateBasket(ctx context.Context, userID uuid.UUID) (*Order, error)
	// FindBasket returns the buyer's open basket or ErrNotFound
	FindBasket(ctx context.Context, userID uuid.UUID) (*Order, error)
	// FindPlacedByUser lists the buyer's non-basket orders
	FindPlacedByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	// FindPlacedByShop lists non-basket orders containing listings of the
	// given shop, with only that shop's lines loaded
	FindPlacedByShop(ctx context.Context, shopID uuid.UUID) ([]Order, error)
	// Save persists the order, its items, and any pending domain events
	// (via the transactional outbox) atomically
	Save(ctx context.Context, order *Order) error
}
