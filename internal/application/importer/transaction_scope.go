package importer

import (
	"context"

	"github.com/Assey1152/orders/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed
// or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the catalog repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// Shops returns the shop repository scoped to the current transaction
	Shops() catalog.ShopRepository
	// Categories returns the category repository scoped to the current transaction
	Categories() catalog.CategoryRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Listings returns the listing repository scoped to the current transaction
	Listings() catalog.ListingRepository
	// Parameters returns the parameter repository scoped to the current transaction
	Parameters() catalog.ParameterRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	shops      catalog.ShopRepository
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	listings   catalog.ListingRepository
	parameters catalog.ParameterRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	shops catalog.ShopRepository,
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	listings catalog.ListingRepository,
	parameters catalog.ParameterRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		shops:      shops,
		categories: categories,
		products:   products,
		listings:   listings,
		parameters: parameters,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Shops returns the shop repository
func (s *NoOpTransactionScope) Shops() catalog.ShopRepository { return s.shops }

// Categories returns the category repository
func (s *NoOpTransactionScope) Categories() catalog.CategoryRepository { return s.categories }

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Listings returns the listing repository
func (s *NoOpTransactionScope) Listings() catalog.ListingRepository { return s.listings }

// Parameters returns the parameter repository
func (s *NoOpTransactionScope) Parameters() catalog.ParameterRepository { return s.parameters }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
