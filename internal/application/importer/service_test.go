package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
)

type fakeShopRepository struct {
	shops       map[uuid.UUID]*catalog.Shop
	attachments map[uuid.UUID][]uuid.UUID
}

func newFakeShopRepository() *fakeShopRepository {
	return &fakeShopRepository{
		shops:       make(map[uuid.UUID]*catalog.Shop),
		attachments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeShopRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Shop, error) {
	shop, ok := r.shops[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return shop, nil
}

func (r *fakeShopRepository) FindByName(_ context.Context, name string) (*catalog.Shop, error) {
	for _, shop := range r.shops {
		if shop.Name == name {
			return shop, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeShopRepository) FindByOwner(_ context.Context, userID uuid.UUID) (*catalog.Shop, error) {
	for _, shop := range r.shops {
		if shop.IsOwnedBy(userID) {
			return shop, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeShopRepository) FindActive(_ context.Context) ([]catalog.Shop, error) {
	var out []catalog.Shop
	for _, shop := range r.shops {
		if shop.Active {
			out = append(out, *shop)
		}
	}
	return out, nil
}

func (r *fakeShopRepository) Save(_ context.Context, shop *catalog.Shop) error {
	r.shops[shop.ID] = shop
	return nil
}

func (r *fakeShopRepository) AttachCategory(_ context.Context, shop *catalog.Shop, category *catalog.Category) error {
	for _, attached := range r.attachments[shop.ID] {
		if attached == category.ID {
			return nil
		}
	}
	r.attachments[shop.ID] = append(r.attachments[shop.ID], category.ID)
	return nil
}

type fakeCategoryRepository struct {
	categories map[uuid.UUID]*catalog.Category
}

func newFakeCategoryRepository() *fakeCategoryRepository {
	return &fakeCategoryRepository{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (r *fakeCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepository) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	for _, category := range r.categories {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepository) FindAll(_ context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (r *fakeCategoryRepository) Save(_ context.Context, category *catalog.Category) error {
	r.categories[category.ID] = category
	return nil
}

type fakeProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepository) FindByCategoryAndName(_ context.Context, categoryID uuid.UUID, name string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.CategoryID == categoryID && product.Name == name {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

type fakeListingRepository struct {
	listings map[uuid.UUID]*catalog.Listing
	saveErr  error
}

func newFakeListingRepository() *fakeListingRepository {
	return &fakeListingRepository{listings: make(map[uuid.UUID]*catalog.Listing)}
}

func (r *fakeListingRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return listing, nil
}

func (r *fakeListingRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Listing, error) {
	var out []catalog.Listing
	for _, id := range ids {
		if listing, ok := r.listings[id]; ok {
			out = append(out, *listing)
		}
	}
	return out, nil
}

func (r *fakeListingRepository) FindVisible(_ context.Context, filter catalog.ListingFilter) ([]catalog.Listing, error) {
	var out []catalog.Listing
	for _, listing := range r.listings {
		if filter.ShopID != nil && listing.ShopID != *filter.ShopID {
			continue
		}
		out = append(out, *listing)
	}
	return out, nil
}

func (r *fakeListingRepository) DeleteByShop(_ context.Context, shopID uuid.UUID) error {
	for id, listing := range r.listings {
		if listing.ShopID == shopID {
			delete(r.listings, id)
		}
	}
	return nil
}

func (r *fakeListingRepository) Save(_ context.Context, listing *catalog.Listing) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.listings[listing.ID] = listing
	return nil
}

type fakeParameterRepository struct {
	parameters map[uuid.UUID]*catalog.Parameter
}

func newFakeParameterRepository() *fakeParameterRepository {
	return &fakeParameterRepository{parameters: make(map[uuid.UUID]*catalog.Parameter)}
}

func (r *fakeParameterRepository) FindByName(_ context.Context, name string) (*catalog.Parameter, error) {
	for _, parameter := range r.parameters {
		if parameter.Name == name {
			return parameter, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeParameterRepository) Save(_ context.Context, parameter *catalog.Parameter) error {
	r.parameters[parameter.ID] = parameter
	return nil
}

type staticFeedSource struct {
	doc *feed.Document
	err error
}

func (s *staticFeedSource) Fetch(_ context.Context, _ string) (*feed.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

type importFixture struct {
	service    *ImportService
	shops      *fakeShopRepository
	categories *fakeCategoryRepository
	products   *fakeProductRepository
	listings   *fakeListingRepository
	parameters *fakeParameterRepository
}

func newImportFixture(source FeedSource) *importFixture {
	f := &importFixture{
		shops:      newFakeShopRepository(),
		categories: newFakeCategoryRepository(),
		products:   newFakeProductRepository(),
		listings:   newFakeListingRepository(),
		parameters: newFakeParameterRepository(),
	}
	scope := NewNoOpTransactionScope(f.shops, f.categories, f.products, f.listings, f.parameters)
	f.service = NewImportService(scope, source, zap.NewNop())
	return f
}

func sampleDocument() *feed.Document {
	doc, err := feed.ParseBytes([]byte(`
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
    parameters:
      "Диагональ (дюйм)": 6.5
      "Цвет": золотистый
  - id: 4672670
    category: 15
    model: apple/iphone/leather-folio
    name: Чехол Apple Leather Folio для iPhone XS Max
    price: 7250
    price_rrc: 9990
    quantity: 36
    parameters:
      "Цвет": чёрный
`))
	if err != nil {
		panic(err)
	}
	return doc
}

func TestImportService_ImportDocument_CreatesCatalog(t *testing.T) {
	fixture := newImportFixture(nil)
	ownerID := uuid.New()

	result, err := fixture.service.ImportDocument(context.Background(), ownerID, sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "Связной", result.Shop)
	assert.Equal(t, 2, result.Categories)
	assert.Equal(t, 2, result.Listings)
	assert.Equal(t, 3, result.Parameters)

	shop, err := fixture.shops.FindByName(context.Background(), "Связной")
	require.NoError(t, err)
	assert.True(t, shop.IsOwnedBy(ownerID))
	assert.Len(t, fixture.shops.attachments[shop.ID], 2)
	assert.Len(t, fixture.listings.listings, 2)
	assert.Len(t, fixture.products.products, 2)
	// The shared parameter "Цвет" is created once
	assert.Len(t, fixture.parameters.parameters, 2)

	// The import event is queued on the shop aggregate
	events := shop.GetDomainEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, "catalog.feed.imported", events[len(events)-1].EventType())
}

func TestImportService_ImportDocument_ReplacesListings(t *testing.T) {
	fixture := newImportFixture(nil)
	ownerID := uuid.New()
	ctx := context.Background()

	_, err := fixture.service.ImportDocument(ctx, ownerID, sampleDocument())
	require.NoError(t, err)

	smaller, err := feed.ParseBytes([]byte(`
shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 4216313
    category: 224
    model: apple/iphone/xr
    name: Смартфон Apple iPhone XR 256GB (красный)
    price: 65000
    price_rrc: 69990
    quantity: 9
`))
	require.NoError(t, err)

	result, err := fixture.service.ImportDocument(ctx, ownerID, smaller)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Listings)

	// Old listings are gone, the new feed fully replaces them
	require.Len(t, fixture.listings.listings, 1)
	for _, listing := range fixture.listings.listings {
		assert.Equal(t, int64(4216313), listing.ExternalID)
	}
}

func TestImportService_ImportDocument_ForeignShopRejected(t *testing.T) {
	fixture := newImportFixture(nil)
	ctx := context.Background()

	_, err := fixture.service.ImportDocument(ctx, uuid.New(), sampleDocument())
	require.NoError(t, err)

	_, err = fixture.service.ImportDocument(ctx, uuid.New(), sampleDocument())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestImportService_ImportFromURL_SetsShopURL(t *testing.T) {
	source := &staticFeedSource{doc: sampleDocument()}
	fixture := newImportFixture(source)

	_, err := fixture.service.ImportFromURL(context.Background(), uuid.New(), "https://vendor.example.com/shop1.yaml")
	require.NoError(t, err)

	shop, err := fixture.shops.FindByName(context.Background(), "Связной")
	require.NoError(t, err)
	require.NotNil(t, shop.URL)
	assert.Equal(t, "https://vendor.example.com/shop1.yaml", *shop.URL)
}

func TestImportService_ImportFromURL_ValidationError(t *testing.T) {
	source := &staticFeedSource{err: feed.ErrMissingShop}
	fixture := newImportFixture(source)

	_, err := fixture.service.ImportFromURL(context.Background(), uuid.New(), "https://vendor.example.com/shop1.yaml")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FEED", domainErr.Code)
}

func TestImportService_ImportDocument_ValidatesDocument(t *testing.T) {
	fixture := newImportFixture(nil)

	// A document assembled in code, not via Parse: the offer references a
	// category the feed never declares.
	doc := &feed.Document{
		Shop:       "Связной",
		Categories: []feed.Category{{ID: 224, Name: "Смартфоны"}},
		Offers: []feed.Offer{{
			ID:         4216292,
			CategoryID: 999,
			Name:       "Смартфон Apple iPhone XS Max 512GB (золотистый)",
			Quantity:   3,
		}},
	}

	_, err := fixture.service.ImportDocument(context.Background(), uuid.New(), doc)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FEED", domainErr.Code)
	assert.Empty(t, fixture.listings.listings)
	assert.Empty(t, fixture.shops.shops)
}

func TestImportService_ImportDocument_RollsUpSaveErrors(t *testing.T) {
	fixture := newImportFixture(nil)
	fixture.listings.saveErr = errors.New("disk full")

	_, err := fixture.service.ImportDocument(context.Background(), uuid.New(), sampleDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
