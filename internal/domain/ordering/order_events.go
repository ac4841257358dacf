package ordering

import (
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the ordering context
const (
	EventTypeOrderPlaced = "ordering.order.placed"
)

// OrderPlacedEvent is raised when a basket transitions to a placed order.
// It is written to the transactional outbox together with the state change
// and consumed by the notification handler.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	ContactID uuid.UUID `json:"contact_id"`
	ItemCount int       `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	var contactID uuid.UUID
	if order.ContactID != nil {
		contactID = *order.ContactID
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, "Order", order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		ContactID:       contactID,
		ItemCount:       len(order.Items),
	}
}
