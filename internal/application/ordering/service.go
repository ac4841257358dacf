package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// OrderService drives the basket lifecycle: filling the basket, placing
// it as an order and reading order history for buyers and vendors.
type OrderService struct {
	orders   ordering.OrderRepository
	listings catalog.ListingRepository
	shops    catalog.ShopRepository
	contacts identity.ContactRepository
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders ordering.OrderRepository,
	listings catalog.ListingRepository,
	shops catalog.ShopRepository,
	contacts identity.ContactRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		listings: listings,
		shops:    shops,
		contacts: contacts,
		logger:   logger,
	}
}

// GetBasket returns the buyer's basket, creating an empty one on first use
func (s *OrderService) GetBasket(ctx context.Context, userID uuid.UUID) (*OrderView, error) {
	basket, err := s.orders.FindOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(basket)
	return &view, nil
}

// AddItems adds listings to the buyer's basket. The whole batch is
// validated before anything is written: if any line references an
// unknown listing, duplicates another line or carries a bad quantity,
// no line is added.
func (s *OrderService) AddItems(ctx context.Context, userID uuid.UUID, items []ItemInput) (*OrderView, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No items to add")
	}
	if err := s.validateItems(ctx, items); err != nil {
		return nil, err
	}

	basket, err := s.orders.FindOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := basket.AddItem(item.ListingID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Save(ctx, basket); err != nil {
		return nil, err
	}

	return s.GetBasket(ctx, userID)
}

// validateItems checks every requested line against the catalog before
// the basket is touched
func (s *OrderService) validateItems(ctx context.Context, items []ItemInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if seen[item.ListingID] {
			return shared.NewDomainError("DUPLICATE_ITEM",
				fmt.Sprintf("Listing %s appears twice in the request", item.ListingID))
		}
		seen[item.ListingID] = true
		ids = append(ids, item.ListingID)
	}

	found, err := s.listings.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		known := make(map[uuid.UUID]bool, len(found))
		for i := range found {
			known[found[i].ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return shared.NewDomainError("INVALID_LISTING",
					fmt.Sprintf("Listing %s does not exist", id))
			}
		}
	}
	return nil
}

// UpdateItems changes quantities of existing basket lines. Lines that
// do not belong to the caller's basket are silently skipped; the count
// of updated lines is returned.
func (s *OrderService) UpdateItems(ctx context.Context, userID uuid.UUID, updates []ItemUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "No items to update")
	}

	basket, err := s.orders.FindBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, update := range updates {
		ok, err := basket.UpdateItemQuantity(update.ItemID, update.Quantity)
		if err != nil {
			return 0, err
		}
		if ok {
			updated++
		}
	}
	if updated > 0 {
		if err := s.orders.Save(ctx, basket); err != nil {
			return 0, err
		}
	}
	return updated, nil
}

// RemoveItems deletes basket lines by id, returning how many matched
func (s *OrderService) RemoveItems(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	if len(itemIDs) == 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "No items to remove")
	}

	basket, err := s.orders.FindBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	removed, err := basket.RemoveItems(itemIDs)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		if err := s.orders.Save(ctx, basket); err != nil {
			return 0, err
		}
	}
	return removed, nil
}

// PlaceOrder turns the buyer's basket into a placed order bound to one
// of their delivery contacts. The state change and the outgoing
// OrderPlacedEvent are persisted in the same transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, orderID, contactID uuid.UUID) (*OrderView, error) {
	if _, err := s.contacts.FindByIDForUser(ctx, userID, contactID); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Place(contactID); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", order.ItemCount()))

	view := NewOrderView(order)
	return &view, nil
}

// GetOrder returns one of the buyer's orders
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.orders.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(order)
	return &view, nil
}

// ListOrders returns the buyer's placed orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	orders, err := s.orders.FindPlacedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(&orders[i]))
	}
	return views, nil
}

// ListShopOrders returns placed orders containing the vendor's listings.
// Each order carries only the vendor's own lines, so totals reflect the
// vendor's share of the order.
func (s *OrderService) ListShopOrders(ctx context.Context, vendorID uuid.UUID) ([]OrderView, error) {
	shop, err := s.shops.FindByOwner(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindPlacedByShop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(&orders[i]))
	}
	return views, nil
}
