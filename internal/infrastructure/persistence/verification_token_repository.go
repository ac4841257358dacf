package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// GormVerificationTokenRepository implements VerificationTokenRepository using GORM
type GormVerificationTokenRepository struct {
	db *gorm.DB
}

// NewGormVerificationTokenRepository creates a new GormVerificationTokenRepository
func NewGormVerificationTokenRepository(db *gorm.DB) *GormVerificationTokenRepository {
	return &GormVerificationTokenRepository{db: db}
}

// FindByToken finds a token by its value
func (r *GormVerificationTokenRepository) FindByToken(ctx context.Context, token uuid.UUID) (*identity.VerificationToken, error) {
	var vt identity.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vt, nil
}

// FindByUser finds the pending token for a user
func (r *GormVerificationTokenRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.VerificationToken, error) {
	var vt identity.VerificationToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vt, nil
}

// Save persists a token
func (r *GormVerificationTokenRepository) Save(ctx context.Context, token *identity.VerificationToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

// Delete removes a token after it has been used
func (r *GormVerificationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.VerificationToken{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormVerificationTokenRepository implements VerificationTokenRepository
var _ identity.VerificationTokenRepository = (*GormVerificationTokenRepository)(nil)
