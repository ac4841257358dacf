package persistence

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/ordering"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// AutoMigrate creates or updates the database schema for all entities
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&identity.User{},
		&identity.Contact{},
		&identity.VerificationToken{},
		&catalog.Shop{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.Parameter{},
		&catalog.Listing{},
		&catalog.ListingParameter{},
		&ordering.Order{},
		&ordering.OrderItem{},
		&shared.OutboxEntry{},
	); err != nil {
		return err
	}

	// One open basket per buyer, enforced at the storage layer. GORM
	// cannot express partial indexes in struct tags.
	return db.Exec(fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_basket_per_user ON orders (user_id) WHERE state = '%s'",
		ordering.OrderStateBasket,
	)).Error
}
