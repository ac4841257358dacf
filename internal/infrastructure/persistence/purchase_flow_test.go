package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcatalog "github.com/Assey1152/orders/internal/application/catalog"
	"github.com/Assey1152/orders/internal/application/importer"
	appordering "github.com/Assey1152/orders/internal/application/ordering"
	domaincatalog "github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/infrastructure/cache"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
)

const purchaseFlowFeed = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
  - id: 4672670
    category: 15
    model: apple/iphone/leather-folio
    name: Чехол Apple Leather Folio для iPhone XS Max
    price: 7250
    price_rrc: 9990
    quantity: 36
`

// Full buyer journey on the real storage layer: a vendor feed is
// imported, the buyer browses the catalog, fills a basket and places
// the order against one of their delivery contacts.
func TestPurchaseFlow_ImportToPlacedOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext()
	log := zap.NewNop()

	users := NewGormUserRepository(db)
	vendor, err := identity.NewUser("shop1@example.com", "not-a-real-hash", "Иван", "Продавцов", identity.UserTypeShop)
	require.NoError(t, err)
	vendor.Activate()
	require.NoError(t, users.Save(ctx, vendor))

	buyer, err := identity.NewUser("buyer@example.com", "not-a-real-hash", "Пётр", "Покупателев", identity.UserTypeBuyer)
	require.NoError(t, err)
	buyer.Activate()
	require.NoError(t, users.Save(ctx, buyer))

	contacts := NewGormContactRepository(db)
	contact, err := identity.NewContact(buyer.ID, "Москва", "Тверская 1", "+79990000000")
	require.NoError(t, err)
	require.NoError(t, contacts.Save(ctx, contact))

	doc, err := feed.ParseBytes([]byte(purchaseFlowFeed))
	require.NoError(t, err)

	scope := NewGormTransactionScope(db)
	importService := importer.NewImportService(scope, nil, log)
	result, err := importService.ImportDocument(ctx, vendor.ID, doc)
	require.NoError(t, err)
	require.Equal(t, 2, result.Listings)

	shops := NewGormShopRepository(db)
	categories := NewGormCategoryRepository(db)
	listings := NewGormListingRepository(db)
	catalogService := appcatalog.NewCatalogService(
		shops, categories, listings, cache.NewInMemoryListingCache(time.Minute), log)

	products, err := catalogService.ListProducts(ctx, domaincatalog.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)

	byName := make(map[string]uuid.UUID, len(products))
	for _, product := range products {
		assert.Equal(t, "Связной", product.Shop)
		byName[product.Name] = product.ID
	}
	phoneID, ok := byName["Смартфон Apple iPhone XS Max 512GB (золотистый)"]
	require.True(t, ok)
	caseID, ok := byName["Чехол Apple Leather Folio для iPhone XS Max"]
	require.True(t, ok)

	orders := NewGormOrderRepository(db)
	orderService := appordering.NewOrderService(orders, listings, shops, contacts, log)

	basket, err := orderService.AddItems(ctx, buyer.ID, []appordering.ItemInput{
		{ListingID: phoneID, Quantity: 2},
		{ListingID: caseID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, basket.Items, 2)

	wantTotal := decimal.RequireFromString("110000").Mul(decimal.NewFromInt(2)).
		Add(decimal.RequireFromString("7250"))
	assert.True(t, basket.TotalSum.Equal(wantTotal),
		"basket total %s, want %s", basket.TotalSum, wantTotal)

	placed, err := orderService.PlaceOrder(ctx, buyer.ID, basket.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStateNew, placed.State)
	require.NotNil(t, placed.ContactID)
	assert.Equal(t, contact.ID, *placed.ContactID)
	assert.True(t, placed.TotalSum.Equal(wantTotal))

	// The placed order shows up in the buyer's history and the basket
	// slot is free again
	history, err := orderService.ListOrders(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, placed.ID, history[0].ID)

	fresh, err := orderService.GetBasket(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
	assert.NotEqual(t, placed.ID, fresh.ID)
}
