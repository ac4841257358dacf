package identity

import (
	"net/mail"
	"time"

	"github.com/Assey1152/orders/internal/domain/shared"
)

// UserType distinguishes vendors from buyers
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

// IsValid checks if the user type is known
func (t UserType) IsValid() bool {
	return t == UserTypeShop || t == UserTypeBuyer
}

// User is an account able to buy, or to run a shop when its type is "shop".
// New accounts start inactive until the email is confirmed.
type User struct {
	shared.BaseAggregateRoot
	Email        string   `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(100);not null"`
	FirstName    string   `gorm:"type:varchar(150)"`
	LastName     string   `gorm:"type:varchar(150)"`
	Company      string   `gorm:"type:varchar(40)"`
	Position     string   `gorm:"type:varchar(40)"`
	Type         UserType `gorm:"type:varchar(10);not null;default:'buyer'"`
	Active       bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new inactive user. The password hash is produced by the
// auth layer; the domain only stores it.
func NewUser(email, passwordHash, firstName, lastName string, userType UserType) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "User type must be shop or buyer")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		Type:              userType,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// Activate marks the user's email as confirmed
func (u *User) Activate() {
	if u.Active {
		return
	}
	u.Active = true
	u.UpdatedAt = time.Now()
}

// IsVendor returns true for shop accounts
func (u *User) IsVendor() bool {
	return u.Type == UserTypeShop
}

// UpdateProfile updates mutable profile fields
func (u *User) UpdateProfile(firstName, lastName, company, position string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.Company = company
	u.Position = position
	u.UpdatedAt = time.Now()
}
