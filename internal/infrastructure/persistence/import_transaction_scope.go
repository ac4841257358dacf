package persistence

import (
	"context"

	"gorm.io/gorm"

	appimport "github.com/Assey1152/orders/internal/application/importer"
	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// A feed import either applies completely or not at all.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// SetOutboxEventSaver sets the outbox event saver used by repositories
// created inside the transaction
func (s *GormTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appimport.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to catalog repositories
// scoped to one transaction
type gormTransactionalRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// Shops returns the shop repository scoped to the current transaction
func (r *gormTransactionalRepositories) Shops() catalog.ShopRepository {
	repo := NewGormShopRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// Categories returns the category repository scoped to the current transaction
func (r *gormTransactionalRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Listings returns the listing repository scoped to the current transaction
func (r *gormTransactionalRepositories) Listings() catalog.ListingRepository {
	return NewGormListingRepository(r.tx)
}

// Parameters returns the parameter repository scoped to the current transaction
func (r *gormTransactionalRepositories) Parameters() catalog.ParameterRepository {
	return NewGormParameterRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appimport.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appimport.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
