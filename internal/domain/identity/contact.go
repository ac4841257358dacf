package identity

import (
	"time"

	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact is a buyer's delivery address with a phone number
type Contact struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	City      string    `gorm:"type:varchar(50);not null"`
	Street    string    `gorm:"type:varchar(50);not null"`
	House     string    `gorm:"type:varchar(50)"`
	Structure string    `gorm:"type:varchar(50)"`
	Building  string    `gorm:"type:varchar(50)"`
	Apartment string    `gorm:"type:varchar(50)"`
	Phone     string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new delivery contact for a user
func NewContact(userID uuid.UUID, city, street, phone string) (*Contact, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if city == "" || street == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "City and street are required")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone is required")
	}
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		City:       city,
		Street:     street,
		Phone:      phone,
	}, nil
}

// Update applies partial updates to address fields; empty strings keep
// the current value for required fields
func (c *Contact) Update(city, street, house, structure, building, apartment, phone string) {
	if city != "" {
		c.City = city
	}
	if street != "" {
		c.Street = street
	}
	c.House = house
	c.Structure = structure
	c.Building = building
	c.Apartment = apartment
	if phone != "" {
		c.Phone = phone
	}
	c.UpdatedAt = time.Now()
}

// VerificationToken confirms ownership of a registered email address
type VerificationToken struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// VerificationTokenTTL is how long an email confirmation link stays valid
const VerificationTokenTTL = 24 * time.Hour

// NewVerificationToken creates a confirmation token for a new user
func NewVerificationToken(userID uuid.UUID) *VerificationToken {
	return &VerificationToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(VerificationTokenTTL),
	}
}

// IsExpired returns true once the token can no longer be used
func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
