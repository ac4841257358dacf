package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByEmail checks whether an account with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save persists the user and any pending domain events atomically
	Save(ctx context.Context, user *User) error
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByIDForUser finds a contact owned by the given user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Contact, error)
	// FindByUser lists all contacts of a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Contact, error)
	// Save creates or updates a contact
	Save(ctx context.Context, contact *Contact) error
	// Delete removes a contact owned by the given user
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// VerificationTokenRepository defines the interface for confirmation tokens
type VerificationTokenRepository interface {
	// FindByToken finds a token by its value
	FindByToken(ctx context.Context, token uuid.UUID) (*VerificationToken, error)
	// FindByUser finds the pending token for a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*VerificationToken, error)
	// Save persists a token
	Save(ctx context.Context, token *VerificationToken) error
	// Delete removes a token after it has been used
	Delete(ctx context.Context, id uuid.UUID) error
}
