package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Assey1152/orders/internal/domain/catalog"
)

func testContext() context.Context {
	return context.Background()
}

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	return db
}

// seedListing creates a shop, category, product and one listing for tests
func seedListing(t *testing.T, db *gorm.DB, shopName, categoryName, productName string, externalID int64, price string) *catalog.Listing {
	t.Helper()
	ctx := testContext()

	shops := NewGormShopRepository(db)
	shop, err := shops.FindByName(ctx, shopName)
	if err != nil {
		shop, err = catalog.NewShop(shopName)
		require.NoError(t, err)
		require.NoError(t, shops.Save(ctx, shop))
	}

	categories := NewGormCategoryRepository(db)
	category, err := categories.FindByName(ctx, categoryName)
	if err != nil {
		category, err = catalog.NewCategory(categoryName)
		require.NoError(t, err)
		require.NoError(t, categories.Save(ctx, category))
	}

	products := NewGormProductRepository(db)
	product, err := products.FindByCategoryAndName(ctx, category.ID, productName)
	if err != nil {
		product, err = catalog.NewProduct(category.ID, productName)
		require.NoError(t, err)
		require.NoError(t, products.Save(ctx, product))
	}

	p := decimal.RequireFromString(price)
	listing, err := catalog.NewListing(product.ID, shop.ID, externalID, "test-model", 10, p, p)
	require.NoError(t, err)
	require.NoError(t, NewGormListingRepository(db).Save(ctx, listing))
	return listing
}
