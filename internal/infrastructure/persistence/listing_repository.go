package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing with its product, shop and parameters preloaded
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	var listing catalog.Listing
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters").
		Preload("Parameters.Parameter").
		First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByIDs finds listings by their IDs
func (r *GormListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []catalog.Listing
	if err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("id IN ?", ids).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindVisible lists listings of active shops matching the filter
func (r *GormListingRepository) FindVisible(ctx context.Context, filter catalog.ListingFilter) ([]catalog.Listing, error) {
	query := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters").
		Preload("Parameters.Parameter").
		Joins("JOIN shops ON shops.id = listings.shop_id").
		Where("shops.active = ?", true)

	if filter.ShopID != nil {
		query = query.Where("listings.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN products ON products.id = listings.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}

	var listings []catalog.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// DeleteByShop removes every listing of a shop together with its parameters
func (r *GormListingRepository) DeleteByShop(ctx context.Context, shopID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("listing_id IN (?)", tx.Model(&catalog.Listing{}).Select("id").Where("shop_id = ?", shopID)).
			Delete(&catalog.ListingParameter{}).Error; err != nil {
			return err
		}
		return tx.Where("shop_id = ?", shopID).Delete(&catalog.Listing{}).Error
	})
}

// Save creates or updates a listing together with its parameters
func (r *GormListingRepository) Save(ctx context.Context, listing *catalog.Listing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Product", "Shop", "Parameters").Save(listing).Error; err != nil {
			return err
		}
		for i := range listing.Parameters {
			listing.Parameters[i].ListingID = listing.ID
			if err := tx.Omit("Parameter").Save(&listing.Parameters[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormListingRepository implements ListingRepository
var _ catalog.ListingRepository = (*GormListingRepository)(nil)
