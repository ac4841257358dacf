package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcatalog "github.com/Assey1152/orders/internal/application/catalog"
	appidentity "github.com/Assey1152/orders/internal/application/identity"
	"github.com/Assey1152/orders/internal/application/importer"
	appordering "github.com/Assey1152/orders/internal/application/ordering"
	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/auth"
	"github.com/Assey1152/orders/internal/infrastructure/cache"
	"github.com/Assey1152/orders/internal/infrastructure/config"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
	"github.com/Assey1152/orders/internal/interfaces/http/middleware"
	"github.com/Assey1152/orders/internal/interfaces/http/router"
)

type fakeUserRepository struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepository) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	user.ClearDomainEvents()
	return nil
}

type fakeTokenRepository struct {
	tokens map[uuid.UUID]*identity.VerificationToken
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{tokens: make(map[uuid.UUID]*identity.VerificationToken)}
}

func (r *fakeTokenRepository) FindByToken(_ context.Context, token uuid.UUID) (*identity.VerificationToken, error) {
	for _, t := range r.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTokenRepository) FindByUser(_ context.Context, userID uuid.UUID) (*identity.VerificationToken, error) {
	for _, t := range r.tokens {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTokenRepository) Save(_ context.Context, token *identity.VerificationToken) error {
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tokens, id)
	return nil
}

type fakeContactRepository struct {
	contacts map[uuid.UUID]*identity.Contact
}

func newFakeContactRepository() *fakeContactRepository {
	return &fakeContactRepository{contacts: make(map[uuid.UUID]*identity.Contact)}
}

func (r *fakeContactRepository) FindByIDForUser(_ context.Context, userID, id uuid.UUID) (*identity.Contact, error) {
	if contact, ok := r.contacts[id]; ok && contact.UserID == userID {
		return contact, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeContactRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]identity.Contact, error) {
	var out []identity.Contact
	for _, contact := range r.contacts {
		if contact.UserID == userID {
			out = append(out, *contact)
		}
	}
	return out, nil
}

func (r *fakeContactRepository) Save(_ context.Context, contact *identity.Contact) error {
	r.contacts[contact.ID] = contact
	return nil
}

func (r *fakeContactRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	if contact, ok := r.contacts[id]; ok && contact.UserID == userID {
		delete(r.contacts, id)
		return nil
	}
	return shared.ErrNotFound
}

type fakeShopRepository struct {
	shops map[uuid.UUID]*catalog.Shop
}

func newFakeShopRepository() *fakeShopRepository {
	return &fakeShopRepository{shops: make(map[uuid.UUID]*catalog.Shop)}
}

func (r *fakeShopRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Shop, error) {
	if shop, ok := r.shops[id]; ok {
		return shop, nil
	}
	return nil, shared.ErrNotFound
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
		if shop.UserID != nil && *shop.UserID == userID {
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
	shop.ClearDomainEvents()
	return nil
}

func (r *fakeShopRepository) AttachCategory(_ context.Context, _ *catalog.Shop, _ *catalog.Category) error {
	return nil
}

type fakeCategoryRepository struct {
	categories map[uuid.UUID]*catalog.Category
}

func newFakeCategoryRepository() *fakeCategoryRepository {
	return &fakeCategoryRepository{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (r *fakeCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if category, ok := r.categories[id]; ok {
		return category, nil
	}
	return nil, shared.ErrNotFound
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
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, shared.ErrNotFound
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

type fakeListingRepository struct {
	listings map[uuid.UUID]*catalog.Listing
}

func newFakeListingRepository() *fakeListingRepository {
	return &fakeListingRepository{listings: make(map[uuid.UUID]*catalog.Listing)}
}

func (r *fakeListingRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Listing, error) {
	if listing, ok := r.listings[id]; ok {
		return listing, nil
	}
	return nil, shared.ErrNotFound
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
		if listing.Shop == nil || !listing.Shop.Active {
			continue
		}
		if filter.ShopID != nil && listing.ShopID != *filter.ShopID {
			continue
		}
		if filter.CategoryID != nil && (listing.Product == nil || listing.Product.CategoryID != *filter.CategoryID) {
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
	r.listings[listing.ID] = listing
	return nil
}

type fakeOrderRepository struct {
	orders   map[uuid.UUID]*ordering.Order
	listings *fakeListingRepository
}

func newFakeOrderRepository(listings *fakeListingRepository) *fakeOrderRepository {
	return &fakeOrderRepository{
		orders:   make(map[uuid.UUID]*ordering.Order),
		listings: listings,
	}
}

// attach mimics the listing preload done by the real repository
func (r *fakeOrderRepository) attach(order *ordering.Order) *ordering.Order {
	for i := range order.Items {
		if listing, ok := r.listings.listings[order.Items[i].ListingID]; ok {
			order.Items[i].Listing = listing
		}
	}
	return order
}

func (r *fakeOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	if order, ok := r.orders[id]; ok {
		return r.attach(order), nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) FindByIDForUser(_ context.Context, userID, id uuid.UUID) (*ordering.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return r.attach(order), nil
}

func (r *fakeOrderRepository) FindOrCreateBasket(ctx context.Context, userID uuid.UUID) (*ordering.Order, error) {
	if basket, err := r.FindBasket(ctx, userID); err == nil {
		return basket, nil
	}
	basket, err := ordering.NewBasket(userID)
	if err != nil {
		return nil, err
	}
	r.orders[basket.ID] = basket
	return basket, nil
}

func (r *fakeOrderRepository) FindBasket(_ context.Context, userID uuid.UUID) (*ordering.Order, error) {
	for _, order := range r.orders {
		if order.UserID == userID && order.IsBasket() {
			return r.attach(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) FindPlacedByUser(_ context.Context, userID uuid.UUID) ([]ordering.Order, error) {
	var out []ordering.Order
	for _, order := range r.orders {
		if order.UserID == userID && !order.IsBasket() {
			out = append(out, *r.attach(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepository) FindPlacedByShop(_ context.Context, shopID uuid.UUID) ([]ordering.Order, error) {
	var out []ordering.Order
	for _, order := range r.orders {
		if order.IsBasket() {
			continue
		}
		r.attach(order)
		copied := *order
		copied.Items = nil
		for _, item := range order.Items {
			if item.Listing != nil && item.Listing.ShopID == shopID {
				copied.Items = append(copied.Items, item)
			}
		}
		if len(copied.Items) > 0 {
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepository) Save(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID] = order
	order.ClearDomainEvents()
	return nil
}

// staticFeedSource serves a fixed document instead of fetching over HTTP
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

// testServer wires real services over in-memory repositories behind the
// same middleware and routes the production router uses
type testServer struct {
	engine   *gin.Engine
	jwt      *auth.JWTService
	hasher   *auth.PasswordHasher
	users    *fakeUserRepository
	tokens   *fakeTokenRepository
	contacts *fakeContactRepository
	shops    *fakeShopRepository
	cats     *fakeCategoryRepository
	listings *fakeListingRepository
	orders   *fakeOrderRepository
	feed     *staticFeedSource
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:     "test-secret-key-32-characters-long",
			Expiration: time.Hour,
			Issuer:     "orders-test",
		}),
		hasher:   auth.NewPasswordHasher(),
		users:    newFakeUserRepository(),
		tokens:   newFakeTokenRepository(),
		contacts: newFakeContactRepository(),
		shops:    newFakeShopRepository(),
		cats:     newFakeCategoryRepository(),
		listings: newFakeListingRepository(),
		feed:     &staticFeedSource{},
	}
	s.orders = newFakeOrderRepository(s.listings)

	logger := zap.NewNop()
	authService := appidentity.NewAuthService(s.users, s.tokens, s.jwt, s.hasher, logger)
	contactService := appidentity.NewContactService(s.contacts, logger)
	catalogService := appcatalog.NewCatalogService(s.shops, s.cats, s.listings,
		cache.NewInMemoryListingCache(time.Minute), logger)
	orderService := appordering.NewOrderService(s.orders, s.listings, s.shops, s.contacts, logger)

	scope := importer.NewNoOpTransactionScope(s.shops, s.cats,
		newFakeProductRepository(), s.listings, newFakeParameterRepository())
	importService := importer.NewImportService(scope, s.feed, logger)

	authHandler := NewAuthHandler(authService)
	contactHandler := NewContactHandler(contactService)
	catalogHandler := NewCatalogHandler(catalogService)
	basketHandler := NewBasketHandler(orderService)
	orderHandler := NewOrderHandler(orderService)
	partnerHandler := NewPartnerHandler(importService, catalogService, orderService)

	s.engine = gin.New()
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: s.jwt,
		SkipPaths: []string{
			"/api/v1/user/register",
			"/api/v1/user/register/confirm",
			"/api/v1/user/login",
			"/api/v1/products",
			"/api/v1/shops",
			"/api/v1/categories",
		},
		SkipPathPrefixes: []string{"/api/v1/products/"},
	}))

	userRoutes := router.NewDomainGroup("user", "/user")
	userRoutes.POST("/register", authHandler.Register)
	userRoutes.POST("/register/confirm", authHandler.Confirm)
	userRoutes.POST("/login", authHandler.Login)
	userRoutes.GET("/details", authHandler.GetAccount)
	userRoutes.PUT("/details", authHandler.UpdateAccount)
	userRoutes.GET("/contacts", contactHandler.List)
	userRoutes.POST("/contacts", contactHandler.Create)
	userRoutes.PUT("/contacts/:id", contactHandler.Update)
	userRoutes.DELETE("/contacts/:id", contactHandler.Delete)

	storeRoutes := router.NewDomainGroup("catalog", "")
	storeRoutes.GET("/products", catalogHandler.ListProducts)
	storeRoutes.GET("/products/:id", catalogHandler.GetProduct)
	storeRoutes.GET("/shops", catalogHandler.ListShops)
	storeRoutes.GET("/categories", catalogHandler.ListCategories)

	basketRoutes := router.NewDomainGroup("basket", "/basket")
	basketRoutes.GET("", basketHandler.Get)
	basketRoutes.POST("/items", basketHandler.AddItems)
	basketRoutes.PUT("/items", basketHandler.UpdateItems)
	basketRoutes.DELETE("/items", basketHandler.RemoveItems)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("", orderHandler.Place)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.Use(middleware.RequireVendor())
	partnerRoutes.POST("/update", partnerHandler.UpdateFeed)
	partnerRoutes.GET("/state", partnerHandler.GetState)
	partnerRoutes.POST("/state", partnerHandler.SetState)
	partnerRoutes.GET("/orders", partnerHandler.Orders)

	router.NewRouter(s.engine).
		Register(userRoutes).
		Register(storeRoutes).
		Register(basketRoutes).
		Register(orderRoutes).
		Register(partnerRoutes).
		Setup()

	return s
}

// seedUser stores an active account and returns it with a valid token
func (s *testServer) seedUser(t *testing.T, email string, userType identity.UserType) (*identity.User, string) {
	t.Helper()
	hash, err := s.hasher.Hash("password123")
	require.NoError(t, err)
	user, err := identity.NewUser(email, hash, "Иван", "Петров", userType)
	require.NoError(t, err)
	user.Activate()
	user.ClearDomainEvents()
	s.users.users[user.ID] = user

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Type))
	require.NoError(t, err)
	return user, token.AccessToken
}

// seedListing creates an active shop with one listing and returns the listing
func (s *testServer) seedListing(t *testing.T, shopName, categoryName, productName string, price string) *catalog.Listing {
	t.Helper()
	shop, err := catalog.NewShop(shopName)
	require.NoError(t, err)
	shop.SetActive(true)
	shop.ClearDomainEvents()
	s.shops.shops[shop.ID] = shop

	category, err := catalog.NewCategory(categoryName)
	require.NoError(t, err)
	s.cats.categories[category.ID] = category

	product, err := catalog.NewProduct(category.ID, productName)
	require.NoError(t, err)
	product.Category = category

	listing, err := catalog.NewListing(product.ID, shop.ID, 4216292, "test/model", 10,
		decimal.RequireFromString(price), decimal.RequireFromString(price))
	require.NoError(t, err)
	listing.Product = product
	listing.Shop = shop
	s.listings.listings[listing.ID] = listing
	return listing
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}
