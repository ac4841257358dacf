package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// preloadOrder attaches the standard preloads for reading an order
func (r *GormOrderRepository) preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("Items.Listing").
		Preload("Items.Listing.Product").
		Preload("Items.Listing.Product.Category").
		Preload("Items.Listing.Shop")
}

// FindByID finds an order with items and listing detail preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.preloadOrder(r.db.WithContext(ctx)).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser finds an order owned by the given buyer
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.preloadOrder(r.db.WithContext(ctx)).
		Where("user_id = ? AND id = ?", userID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindBasket returns the buyer's open basket or ErrNotFound
func (r *GormOrderRepository) FindBasket(ctx context.Context, userID uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.preloadOrder(r.db.WithContext(ctx)).
		Where("user_id = ? AND state = ?", userID, ordering.OrderStateBasket).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindOrCreateBasket returns the buyer's open basket, creating it when
// absent. The partial unique index on (user_id) for basket-state orders
// rejects a second insert, so concurrent first adds converge on a single
// basket row: the loser's insert fails and it re-reads the winner's.
func (r *GormOrderRepository) FindOrCreateBasket(ctx context.Context, userID uuid.UUID) (*ordering.Order, error) {
	basket, err := r.FindBasket(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := ordering.NewBasket(userID)
	if err != nil {
		return nil, err
	}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		// a unique violation means a concurrent request won the race;
		// the re-read runs outside the failed insert's transaction
		if basket, err := r.FindBasket(ctx, userID); err == nil {
			return basket, nil
		}
		return nil, createErr
	}
	return created, nil
}

// FindPlacedByUser lists the buyer's non-basket orders
func (r *GormOrderRepository) FindPlacedByUser(ctx context.Context, userID uuid.UUID) ([]ordering.Order, error) {
	var orders []ordering.Order
	if err := r.preloadOrder(r.db.WithContext(ctx)).
		Where("user_id = ? AND state <> ?", userID, ordering.OrderStateBasket).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindPlacedByShop lists non-basket orders containing listings of the given
// shop. Only the shop's own lines are loaded on each order.
func (r *GormOrderRepository) FindPlacedByShop(ctx context.Context, shopID uuid.UUID) ([]ordering.Order, error) {
	shopListings := r.db.Table("listings").Select("id").Where("shop_id = ?", shopID)

	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", "listing_id IN (?)", shopListings).
		Preload("Items.Listing").
		Preload("Items.Listing.Product").
		Preload("Items.Listing.Product.Category").
		Where("state <> ?", ordering.OrderStateBasket).
		Where("id IN (?)", r.db.
			Table("order_items").
			Select("order_items.order_id").
			Where("order_items.listing_id IN (?)", r.db.Table("listings").Select("id").Where("shop_id = ?", shopID))).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists the order, its items, and any pending domain events atomically
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		// Reconcile item rows with the aggregate's current lines
		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&ordering.OrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&ordering.OrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Omit("Listing").Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
