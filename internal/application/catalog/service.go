package catalog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/cache"
)

// CatalogService serves buyer-facing catalog queries and the vendor's
// shop state toggle
type CatalogService struct {
	shops      catalog.ShopRepository
	categories catalog.CategoryRepository
	listings   catalog.ListingRepository
	cache      cache.ListingCache
	logger     *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	shops catalog.ShopRepository,
	categories catalog.CategoryRepository,
	listings catalog.ListingRepository,
	listingCache cache.ListingCache,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		shops:      shops,
		categories: categories,
		listings:   listings,
		cache:      listingCache,
		logger:     logger,
	}
}

// ListProducts returns listings of active shops matching the filter.
// Results are served from the listing cache when possible; cache
// failures fall through to the database.
func (s *CatalogService) ListProducts(ctx context.Context, filter catalog.ListingFilter) ([]ProductView, error) {
	key := cache.ListingKey(filter)
	if payload, err := s.cache.Get(ctx, key); err == nil {
		var views []ProductView
		if err := json.Unmarshal(payload, &views); err == nil {
			return views, nil
		}
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}

	listings, err := s.listings.FindVisible(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(listings))
	for i := range listings {
		views = append(views, NewProductView(&listings[i]))
	}

	if payload, err := json.Marshal(views); err == nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Warn("failed to cache product query", zap.String("key", key), zap.Error(err))
		}
	}
	return views, nil
}

// GetProduct returns a single visible listing by id
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Shop != nil && !listing.Shop.Active {
		return nil, shared.ErrNotFound
	}
	view := NewProductView(listing)
	return &view, nil
}

// ListShops returns all shops currently visible to buyers
func (s *CatalogService) ListShops(ctx context.Context) ([]ShopView, error) {
	shops, err := s.shops.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ShopView, 0, len(shops))
	for i := range shops {
		views = append(views, NewShopView(&shops[i]))
	}
	return views, nil
}

// ListCategories returns all known categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, NewCategoryView(&categories[i]))
	}
	return views, nil
}

// GetShopState returns the vendor's own shop
func (s *CatalogService) GetShopState(ctx context.Context, vendorID uuid.UUID) (*ShopView, error) {
	shop, err := s.shops.FindByOwner(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	view := NewShopView(shop)
	return &view, nil
}

// SetShopState toggles the vendor's shop visibility. Deactivated shops
// keep their listings but buyers no longer see them.
func (s *CatalogService) SetShopState(ctx context.Context, vendorID uuid.UUID, active bool) (*ShopView, error) {
	shop, err := s.shops.FindByOwner(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	shop.SetActive(active)
	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, err
	}

	s.logger.Info("shop state changed",
		zap.String("shop_id", shop.ID.String()),
		zap.Bool("active", active))

	view := NewShopView(shop)
	return &view, nil
}
