package rental

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
)

// BuildingService handles building management
type BuildingService struct {
	buildingRepo rental.BuildingRepository
	roomRepo     rental.RoomRepository
}

// NewBuildingService creates a new BuildingService
func NewBuildingService(buildingRepo rental.BuildingRepository, roomRepo rental.RoomRepository) *BuildingService {
	return &BuildingService{
		buildingRepo: buildingRepo,
		roomRepo:     roomRepo,
	}
}

// CreateBuildingRequest represents a request to create a building
type CreateBuildingRequest struct {
	Name    string
	Address string
}

// CreateBuilding creates a new building
func (s *BuildingService) CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*rental.Building, error) {
	building, err := rental.NewBuilding(req.Name, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to save building: %w", err)
	}

	return building, nil
}

// GetBuilding returns a building by ID
func (s *BuildingService) GetBuilding(ctx context.Context, id uuid.UUID) (*rental.Building, error) {
	building, err := s.buildingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	if building == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Building not found")
	}
	return building, nil
}

// ListBuildings returns all buildings
func (s *BuildingService) ListBuildings(ctx context.Context, filter shared.Filter) ([]*rental.Building, error) {
	buildings, err := s.buildingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

// UpdateBuildingRequest represents a request to update a building
type UpdateBuildingRequest struct {
	Name    *string
	Address *string
}

// UpdateBuilding updates a building's name and address
func (s *BuildingService) UpdateBuilding(ctx context.Context, id uuid.UUID, req UpdateBuildingRequest) (*rental.Building, error) {
	building, err := s.GetBuilding(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := building.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := building.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to save building: %w", err)
	}

	return building, nil
}

// DeleteBuilding removes a building that has no rooms
func (s *BuildingService) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBuilding(ctx, id); err != nil {
		return err
	}

	count, err := s.roomRepo.Count(ctx, rental.RoomFilter{BuildingID: &id})
	if err != nil {
		return fmt.Errorf("failed to count rooms: %w", err)
	}
	if count > 0 {
		return shared.NewDomainError("BUILDING_NOT_EMPTY", "Building still has rooms")
	}

	return s.buildingRepo.Delete(ctx, id)
}
