package rental

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// RoomService handles room management.
// Changing a room's availability is never done here directly: EMPTY<->RENTED
// transitions belong to the contract lifecycle, this service only exposes the
// maintenance toggle.
type RoomService struct {
	roomRepo       rental.RoomRepository
	buildingRepo   rental.BuildingRepository
	contractRepo   rental.ContractRepository
	eventPublisher shared.EventPublisher
}

// NewRoomService creates a new RoomService
func NewRoomService(
	roomRepo rental.RoomRepository,
	buildingRepo rental.BuildingRepository,
	contractRepo rental.ContractRepository,
) *RoomService {
	return &RoomService{
		roomRepo:     roomRepo,
		buildingRepo: buildingRepo,
		contractRepo: contractRepo,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *RoomService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RoomService) publishDomainEvents(ctx context.Context, room *rental.Room) {
	if s.eventPublisher == nil || room == nil {
		return
	}
	events := room.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	room.ClearDomainEvents()
}

// CreateRoomRequest represents a request to create a room
type CreateRoomRequest struct {
	BuildingID uuid.UUID
	Name       string
	BasePrice  valueobject.Money
	Bedrooms   int
	Bathrooms  int
	AreaM2     *decimal.Decimal
	ImageURL   string
}

// CreateRoom creates a new room in the EMPTY state
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*rental.Room, error) {
	building, err := s.buildingRepo.FindByID(ctx, req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	if building == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Building not found")
	}

	room, err := rental.NewRoom(req.BuildingID, req.Name, req.BasePrice, req.Bedrooms, req.Bathrooms)
	if err != nil {
		return nil, err
	}
	if req.AreaM2 != nil {
		if err := room.SetArea(*req.AreaM2); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		if err := room.SetImage(req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.publishDomainEvents(ctx, room)
	return room, nil
}

// GetRoom returns a room by ID
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Room not found")
	}
	return room, nil
}

// ListRooms returns rooms matching the filter
func (s *RoomService) ListRooms(ctx context.Context, filter rental.RoomFilter) ([]*rental.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailableRooms returns rooms currently open for rent
func (s *RoomService) ListAvailableRooms(ctx context.Context, filter rental.RoomFilter) ([]*rental.Room, error) {
	status := rental.RoomStatusEmpty
	filter.Status = &status
	return s.ListRooms(ctx, filter)
}

// UpdateRoomRequest represents a request to update a room
type UpdateRoomRequest struct {
	BasePrice *valueobject.Money
	AreaM2    *decimal.Decimal
	ImageURL  *string
}

// UpdateRoom updates a room's descriptive attributes.
// A price change never touches existing contracts; their agreed rent stays.
func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*rental.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BasePrice != nil {
		if err := room.SetBasePrice(*req.BasePrice); err != nil {
			return nil, err
		}
	}
	if req.AreaM2 != nil {
		if err := room.SetArea(*req.AreaM2); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := room.SetImage(*req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.publishDomainEvents(ctx, room)
	return room, nil
}

// EnterMaintenance takes an empty room out of the rentable pool
func (s *RoomService) EnterMaintenance(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := room.EnterMaintenance(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.publishDomainEvents(ctx, room)
	return room, nil
}

// ExitMaintenance returns a room to the rentable pool
func (s *RoomService) ExitMaintenance(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := room.ExitMaintenance(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.publishDomainEvents(ctx, room)
	return room, nil
}

// DeleteRoom removes a room that is not rented
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if room.Status == rental.RoomStatusRented {
		return shared.NewDomainError("ROOM_NOT_AVAILABLE", "Cannot delete a rented room")
	}

	contract, err := s.contractRepo.FindActiveByRoom(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check active contract: %w", err)
	}
	if contract != nil {
		return shared.NewDomainError("ROOM_NOT_AVAILABLE", "Room has an active contract")
	}

	return s.roomRepo.Delete(ctx, id)
}
