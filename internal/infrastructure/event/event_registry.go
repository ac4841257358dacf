package event

import (
	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog domain events
	serializer.Register(catalog.EventTypeShopStateChanged, &catalog.ShopStateChangedEvent{})
	serializer.Register(catalog.EventTypeCatalogImported, &catalog.CatalogImportedEvent{})

	// Ordering domain events
	serializer.Register(ordering.EventTypeOrderPlaced, &ordering.OrderPlacedEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
}
