package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/shared"
)

// CatalogInvalidator drops cached catalog queries when the catalog changes.
// It reacts to feed imports and shop visibility toggles.
type CatalogInvalidator struct {
	cache  ListingCache
	logger *zap.Logger
}

// NewCatalogInvalidator creates an event handler that invalidates the listing cache
func NewCatalogInvalidator(cache ListingCache, logger *zap.Logger) *CatalogInvalidator {
	return &CatalogInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the catalog events that make cached queries stale
func (h *CatalogInvalidator) EventTypes() []string {
	return []string{
		"catalog.feed.imported",
		"catalog.shop.state_changed",
	}
}

// Handle drops all cached listing queries
func (h *CatalogInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.InvalidateAll(ctx); err != nil {
		h.logger.Error("failed to invalidate listing cache",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return err
	}

	h.logger.Debug("listing cache invalidated",
		zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*CatalogInvalidator)(nil)
