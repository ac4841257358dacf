package identity

import (
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the identity context
const (
	EventTypeUserRegistered = "identity.user.registered"
)

// UserRegisteredEvent is raised when a new account is created.
// The notification handler sends the email confirmation link.
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, "User", user.ID),
		UserID:          user.ID,
		Email:           user.Email,
	}
}
