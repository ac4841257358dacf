package catalog

import (
	"net/url"
	"time"

	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Shop represents a vendor's storefront.
// A shop is created on first feed import and bound to the importing vendor.
type Shop struct {
	shared.BaseAggregateRoot
	Name       string     `gorm:"type:varchar(60);not null;uniqueIndex"`
	URL        *string    `gorm:"type:varchar(255);uniqueIndex"`
	UserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Active     bool       `gorm:"not null;default:true"`
	Categories []Category `gorm:"many2many:shop_categories"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates a new shop with the given name
func NewShop(name string) (*Shop, error) {
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// BindOwner binds the shop to a vendor user. The first successful bind wins:
// once a shop has an owner it is never rebound to a different vendor.
func (s *Shop) BindOwner(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if s.UserID != nil {
		if *s.UserID != userID {
			return shared.NewDomainError("FORBIDDEN", "Shop is owned by another vendor")
		}
		return nil
	}
	s.UserID = &userID
	s.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy returns true if the shop is bound to the given vendor user
func (s *Shop) IsOwnedBy(userID uuid.UUID) bool {
	return s.UserID != nil && *s.UserID == userID
}

// SetActive toggles the shop's visibility to buyers
func (s *Shop) SetActive(active bool) {
	if s.Active == active {
		return
	}
	s.Active = active
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewShopStateChangedEvent(s))
}

// SetURL sets the shop's feed URL after validating it
func (s *Shop) SetURL(rawURL string) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	s.URL = &rawURL
	s.UpdatedAt = time.Now()
	return nil
}

// ValidateURL checks that a raw URL is absolute http(s)
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return shared.NewDomainError("INVALID_URL", "URL is not well-formed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return shared.NewDomainError("INVALID_URL", "URL scheme must be http or https")
	}
	return nil
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Shop name cannot be empty")
	}
	if len(name) > 60 {
		return shared.NewDomainError("INVALID_NAME", "Shop name cannot exceed 60 characters")
	}
	return nil
}
