package rental

import (
	"strings"
	"time"

	"github.com/rentledger/backend/internal/domain/shared"
)

// Building groups rooms under one address
type Building struct {
	shared.BaseAggregateRoot
	Name    string
	Address string
}

// NewBuilding creates a new building
func NewBuilding(name, address string) (*Building, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot be empty")
	}
	if len(name) > 120 {
		return nil, shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot exceed 120 characters")
	}
	address = strings.TrimSpace(address)
	if len(address) > 255 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 255 characters")
	}

	return &Building{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
	}, nil
}

// Rename changes the building's name
func (b *Building) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot exceed 120 characters")
	}

	b.Name = name
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetAddress changes the building's address
func (b *Building) SetAddress(address string) error {
	address = strings.TrimSpace(address)
	if len(address) > 255 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 255 characters")
	}

	b.Address = address
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}
