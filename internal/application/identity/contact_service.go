package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/identity"
)

// ContactService manages a buyer's delivery addresses
type ContactService struct {
	contacts identity.ContactRepository
	logger   *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contacts identity.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contacts: contacts, logger: logger}
}

// Create adds a delivery contact for the user
func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, input ContactInput) (*ContactView, error) {
	contact, err := identity.NewContact(userID, input.City, input.Street, input.Phone)
	if err != nil {
		return nil, err
	}
	contact.House = input.House
	contact.Structure = input.Structure
	contact.Building = input.Building
	contact.Apartment = input.Apartment

	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}

	view := NewContactView(contact)
	return &view, nil
}

// List returns all of the user's delivery contacts
func (s *ContactService) List(ctx context.Context, userID uuid.UUID) ([]ContactView, error) {
	contacts, err := s.contacts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ContactView, 0, len(contacts))
	for i := range contacts {
		views = append(views, NewContactView(&contacts[i]))
	}
	return views, nil
}

// Update changes one of the user's contacts
func (s *ContactService) Update(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*ContactView, error) {
	contact, err := s.contacts.FindByIDForUser(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	contact.Update(input.City, input.Street, input.House, input.Structure, input.Building, input.Apartment, input.Phone)
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}

	view := NewContactView(contact)
	return &view, nil
}

// Delete removes one of the user's contacts
func (s *ContactService) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	return s.contacts.Delete(ctx, userID, contactID)
}
