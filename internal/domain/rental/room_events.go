package rental

import (
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// RoomCreatedEvent is published when a new room is registered
type RoomCreatedEvent struct {
	shared.BaseDomainEvent
	BuildingID uuid.UUID  `json:"building_id"`
	Name       string     `json:"name"`
	Status     RoomStatus `json:"status"`
}

// NewRoomCreatedEvent creates a new RoomCreatedEvent
func NewRoomCreatedEvent(r *Room) *RoomCreatedEvent {
	return &RoomCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RoomCreated", "Room", r.ID),
		BuildingID:      r.BuildingID,
		Name:            r.Name,
		Status:          r.Status,
	}
}

// RoomStatusChangedEvent is published when a room changes status
type RoomStatusChangedEvent struct {
	shared.BaseDomainEvent
	FromStatus RoomStatus `json:"from_status"`
	ToStatus   RoomStatus `json:"to_status"`
}

// NewRoomStatusChangedEvent creates a new RoomStatusChangedEvent
func NewRoomStatusChangedEvent(r *Room, from RoomStatus) *RoomStatusChangedEvent {
	return &RoomStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RoomStatusChanged", "Room", r.ID),
		FromStatus:      from,
		ToStatus:        r.Status,
	}
}
