package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Assey1152/orders/internal/domain/catalog"
	"github.com/Assey1152/orders/internal/domain/shared"
)

// GormParameterRepository implements ParameterRepository using GORM
type GormParameterRepository struct {
	db *gorm.DB
}

// NewGormParameterRepository creates a new GormParameterRepository
func NewGormParameterRepository(db *gorm.DB) *GormParameterRepository {
	return &GormParameterRepository{db: db}
}

// FindByName finds a parameter by its unique name
func (r *GormParameterRepository) FindByName(ctx context.Context, name string) (*catalog.Parameter, error) {
	var parameter catalog.Parameter
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&parameter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &parameter, nil
}

// Save creates or updates a parameter
func (r *GormParameterRepository) Save(ctx context.Context, parameter *catalog.Parameter) error {
	return r.db.WithContext(ctx).Save(parameter).Error
}

// Ensure GormParameterRepository implements ParameterRepository
var _ catalog.ParameterRepository = (*GormParameterRepository)(nil)
