package identity

import (
	"github.com/google/uuid"

	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/infrastructure/auth"
)

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   string
	Position  string
	Type      identity.UserType
}

// UserView is the account as returned to its owner
type UserView struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Company   string            `json:"company,omitempty"`
	Position  string            `json:"position,omitempty"`
	Type      identity.UserType `json:"type"`
	Active    bool              `json:"active"`
}

// LoginResult carries the issued token together with the account
type LoginResult struct {
	Token *auth.Token `json:"token"`
	User  UserView    `json:"user"`
}

// ContactInput is a delivery address as submitted by the buyer
type ContactInput struct {
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// ContactView is a delivery address as returned to the buyer
type ContactView struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house,omitempty"`
	Structure string    `json:"structure,omitempty"`
	Building  string    `json:"building,omitempty"`
	Apartment string    `json:"apartment,omitempty"`
	Phone     string    `json:"phone"`
}

// NewUserView projects a user account
func NewUserView(user *identity.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Company:   user.Company,
		Position:  user.Position,
		Type:      user.Type,
		Active:    user.Active,
	}
}

// NewContactView projects a delivery contact
func NewContactView(contact *identity.Contact) ContactView {
	return ContactView{
		ID:        contact.ID,
		City:      contact.City,
		Street:    contact.Street,
		House:     contact.House,
		Structure: contact.Structure,
		Building:  contact.Building,
		Apartment: contact.Apartment,
		Phone:     contact.Phone,
	}
}
