package catalog

import (
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/google/uuid"
)

// Parameter is a named product characteristic, e.g. "color" or "memory".
// Parameter names are global and created lazily during feed import.
type Parameter struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(60);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Parameter) TableName() string {
	return "parameters"
}

// NewParameter creates a new parameter
func NewParameter(name string) (*Parameter, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Parameter name cannot be empty")
	}
	if len(name) > 60 {
		return nil, shared.NewDomainError("INVALID_NAME", "Parameter name cannot exceed 60 characters")
	}
	return &Parameter{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// ListingParameter holds one parameter value of a listing
type ListingParameter struct {
	shared.BaseEntity
	ListingID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameter,priority:1"`
	ParameterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameter,priority:2"`
	Parameter   *Parameter `gorm:"foreignKey:ParameterID"`
	Value       string     `gorm:"type:varchar(60);not null"`
}

// TableName returns the table name for GORM
func (ListingParameter) TableName() string {
	return "listing_parameters"
}
