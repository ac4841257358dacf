package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
)

// FeedSource downloads and parses a vendor price feed
type FeedSource interface {
	Fetch(ctx context.Context, url string) (*feed.Document, error)
}

// ImportResult summarizes an applied feed import
type ImportResult struct {
	ShopID     uuid.UUID `json:"shop_id"`
	Shop       string    `json:"shop"`
	Categories int       `json:"categories"`
	Listings   int       `json:"listings"`
	Parameters int       `json:"parameters"`
}

// ImportService applies vendor price feeds to the catalog.
// Each import replaces the shop's listings atomically: the previous
// listings are removed and the feed's offers recreated in one
// transaction, so buyers never see a half-applied feed.
type ImportService struct {
	scope  TransactionScope
	source FeedSource
	logger *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(scope TransactionScope, source FeedSource, logger *zap.Logger) *ImportService {
	return &ImportService{
		scope:  scope,
		source: source,
		logger: logger,
	}
}

// ImportFromURL downloads the feed at rawURL and applies it on behalf
// of the vendor user. The URL is remembered on the shop for later
// re-imports.
func (s *ImportService) ImportFromURL(ctx context.Context, ownerID uuid.UUID, rawURL string) (*ImportResult, error) {
	doc, err := s.source.Fetch(ctx, rawURL)
	if err != nil {
		if feed.IsValidationError(err) {
			return nil, shared.NewDomainError("INVALID_FEED", err.Error())
		}
		return nil, err
	}
	return s.apply(ctx, ownerID, doc, rawURL)
}

// ImportDocument applies an already parsed feed on behalf of the vendor
// user. Documents can arrive without going through Parse, so the feed
// rules are checked again before anything touches the catalog.
func (s *ImportService) ImportDocument(ctx context.Context, ownerID uuid.UUID, doc *feed.Document) (*ImportResult, error) {
	if err := feed.Validate(doc); err != nil {
		return nil, shared.NewDomainError("INVALID_FEED", err.Error())
	}
	return s.apply(ctx, ownerID, doc, "")
}

func (s *ImportService) apply(ctx context.Context, ownerID uuid.UUID, doc *feed.Document, sourceURL string) (*ImportResult, error) {
	var result *ImportResult

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		shop, err := s.resolveShop(ctx, repos, ownerID, doc.Shop, sourceURL)
		if err != nil {
			return err
		}

		if err := repos.Listings().DeleteByShop(ctx, shop.ID); err != nil {
			return fmt.Errorf("failed to clear previous listings: %w", err)
		}

		categories, err := s.resolveCategories(ctx, repos, shop, doc.Categories)
		if err != nil {
			return err
		}

		parameterValues := 0
		parameters := make(map[string]*catalog.Parameter)
		for _, offer := range doc.Offers {
			count, err := s.createListing(ctx, repos, shop, categories[offer.CategoryID], parameters, offer)
			if err != nil {
				return err
			}
			parameterValues += count
		}

		shop.AddDomainEvent(catalog.NewCatalogImportedEvent(shop, len(doc.Categories), len(doc.Offers), parameterValues))
		if err := repos.Shops().Save(ctx, shop); err != nil {
			return fmt.Errorf("failed to save shop: %w", err)
		}

		result = &ImportResult{
			ShopID:     shop.ID,
			Shop:       shop.Name,
			Categories: len(doc.Categories),
			Listings:   len(doc.Offers),
			Parameters: parameterValues,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feed imported",
		zap.String("shop", result.Shop),
		zap.String("shop_id", result.ShopID.String()),
		zap.Int("categories", result.Categories),
		zap.Int("listings", result.Listings),
		zap.Int("parameters", result.Parameters))
	return result, nil
}

// resolveShop finds or creates the shop named in the feed and binds it
// to the importing vendor. A shop already bound to another vendor
// rejects the import.
func (s *ImportService) resolveShop(ctx context.Context, repos TransactionalRepositories, ownerID uuid.UUID, name, sourceURL string) (*catalog.Shop, error) {
	shop, err := repos.Shops().FindByName(ctx, name)
	if errors.Is(err, shared.ErrNotFound) {
		shop, err = catalog.NewShop(name)
	}
	if err != nil {
		return nil, err
	}

	if err := shop.BindOwner(ownerID); err != nil {
		return nil, err
	}
	if sourceURL != "" {
		if err := shop.SetURL(sourceURL); err != nil {
			return nil, err
		}
	}
	if err := repos.Shops().Save(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to save shop: %w", err)
	}
	return shop, nil
}

// resolveCategories maps feed category ids to catalog categories,
// creating missing ones and attaching each to the shop. Categories are
// shared across shops and matched by name.
func (s *ImportService) resolveCategories(ctx context.Context, repos TransactionalRepositories, shop *catalog.Shop, declared []feed.Category) (map[int64]*catalog.Category, error) {
	categories := make(map[int64]*catalog.Category, len(declared))
	for _, fc := range declared {
		category, err := repos.Categories().FindByName(ctx, fc.Name)
		if errors.Is(err, shared.ErrNotFound) {
			category, err = catalog.NewCategory(fc.Name)
			if err == nil {
				err = repos.Categories().Save(ctx, category)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", fc.Name, err)
		}

		if err := repos.Shops().AttachCategory(ctx, shop, category); err != nil {
			return nil, fmt.Errorf("failed to attach category %q: %w", fc.Name, err)
		}
		categories[fc.ID] = category
	}
	return categories, nil
}

func (s *ImportService) createListing(ctx context.Context, repos TransactionalRepositories, shop *catalog.Shop, category *catalog.Category, parameters map[string]*catalog.Parameter, offer feed.Offer) (int, error) {
	product, err := repos.Products().FindByCategoryAndName(ctx, category.ID, offer.Name)
	if errors.Is(err, shared.ErrNotFound) {
		product, err = catalog.NewProduct(category.ID, offer.Name)
		if err == nil {
			err = repos.Products().Save(ctx, product)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve product %q: %w", offer.Name, err)
	}

	listing, err := catalog.NewListing(product.ID, shop.ID, offer.ID, offer.Model, offer.Quantity, offer.Price.Decimal, offer.RetailPrice.Decimal)
	if err != nil {
		return 0, err
	}

	for name, value := range offer.Parameters {
		parameter, ok := parameters[name]
		if !ok {
			parameter, err = repos.Parameters().FindByName(ctx, name)
			if errors.Is(err, shared.ErrNotFound) {
				parameter, err = catalog.NewParameter(name)
				if err == nil {
					err = repos.Parameters().Save(ctx, parameter)
				}
			}
			if err != nil {
				return 0, fmt.Errorf("failed to resolve parameter %q: %w", name, err)
			}
			parameters[name] = parameter
		}
		if err := listing.AddParameter(parameter.ID, value); err != nil {
			return 0, err
		}
	}

	if err := repos.Listings().Save(ctx, listing); err != nil {
		return 0, fmt.Errorf("failed to save listing %d: %w", offer.ID, err)
	}
	return len(offer.Parameters), nil
}
