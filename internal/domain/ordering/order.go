package ordering

import (
	"fmt"
	"time"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState represents the state of an order
type OrderState string

const (
	// OrderStateBasket is the buyer's mutable cart
	OrderStateBasket OrderState = "basket"
	// OrderStateNew is a placed order awaiting confirmation
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

// IsValid checks if the state is a valid OrderState
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateBasket, OrderStateNew, OrderStateConfirmed, OrderStateAssembled,
		OrderStateSent, OrderStateDelivered, OrderStateCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state.
// States past "new" are driven by external fulfillment.
func (s OrderState) CanTransitionTo(target OrderState) bool {
	switch s {
	case OrderStateBasket:
		return target == OrderStateNew
	case OrderStateNew:
		return target == OrderStateConfirmed || target == OrderStateCanceled
	case OrderStateConfirmed:
		return target == OrderStateAssembled || target == OrderStateCanceled
	case OrderStateAssembled:
		return target == OrderStateSent || target == OrderStateCanceled
	case OrderStateSent:
		return target == OrderStateDelivered
	case OrderStateDelivered, OrderStateCanceled:
		return false
	}
	return false
}

// OrderItem is a line of an order referencing a vendor listing
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_order_item_listing,priority:1"`
	ListingID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_order_item_listing,priority:2"`
	Listing   *catalog.Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Quantity  int              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order is the aggregate root for a buyer's basket and its placed successor.
// Each buyer has at most one order in the basket state at a time; that
// invariant is maintained by the repository's get-or-create semantics.
type Order struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_order_user_state,priority:1"`
	State     OrderState  `gorm:"type:varchar(15);not null;index:idx_order_user_state,priority:2"`
	ContactID *uuid.UUID  `gorm:"type:uuid"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewBasket creates a new empty basket order for a buyer
func NewBasket(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		State:             OrderStateBasket,
	}, nil
}

// IsBasket returns true while the order is a mutable cart
func (o *Order) IsBasket() bool {
	return o.State == OrderStateBasket
}

// AddItem adds a listing to the basket.
// The same listing cannot appear on two lines of one order.
func (o *Order) AddItem(listingID uuid.UUID, quantity int) (*OrderItem, error) {
	if !o.IsBasket() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a placed order")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for _, item := range o.Items {
		if item.ListingID == listingID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Listing is already in the basket")
		}
	}

	item := OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		ListingID:  listingID,
		Quantity:   quantity,
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = time.Now()

	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity updates the quantity of a basket line in place.
// Returns false without error when the item is not part of this order.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) (bool, error) {
	if !o.IsBasket() {
		return false, shared.NewDomainError("INVALID_STATE", "Cannot update items of a placed order")
	}
	if quantity < 1 {
		return false, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].Quantity = quantity
			o.Items[idx].UpdatedAt = time.Now()
			o.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

// RemoveItems deletes the given basket lines, returning how many matched
func (o *Order) RemoveItems(itemIDs []uuid.UUID) (int, error) {
	if !o.IsBasket() {
		return 0, shared.NewDomainError("INVALID_STATE", "Cannot remove items from a placed order")
	}
	wanted := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	kept := o.Items[:0]
	removed := 0
	for _, item := range o.Items {
		if wanted[item.ID] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	o.Items = kept
	if removed > 0 {
		o.UpdatedAt = time.Now()
	}
	return removed, nil
}

// Place finalizes the basket: binds the delivery contact and moves the
// order to the "new" state. Placing is one-shot; a placed order can never
// return to the basket state.
func (o *Order) Place(contactID uuid.UUID) error {
	if !o.State.CanTransitionTo(OrderStateNew) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot place order in %s state", o.State))
	}
	if contactID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot place an empty basket")
	}

	o.ContactID = &contactID
	o.State = OrderStateNew
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return nil
}

// SetState applies a fulfillment-driven state change
func (o *Order) SetState(target OrderState) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATE", "Unknown order state")
	}
	if !o.State.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.State, target))
	}
	o.State = target
	o.UpdatedAt = time.Now()
	return nil
}

// TotalSum computes the order total from the current listing prices.
// Items whose listing is not loaded (or was cascaded away by a feed
// re-import) contribute nothing.
func (o *Order) TotalSum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.Listing == nil {
			continue
		}
		total = total.Add(item.Listing.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}
