package rental

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RoomStatus represents the availability state of a room
type RoomStatus string

const (
	RoomStatusEmpty  RoomStatus = "EMPTY"  // Available for rent
	RoomStatusRented RoomStatus = "RENTED" // Exactly one active contract references the room
	RoomStatusMaint  RoomStatus = "MAINT"  // Under maintenance, not rentable
)

// IsValid checks if the status is a valid RoomStatus
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusEmpty, RoomStatusRented, RoomStatusMaint:
		return true
	}
	return false
}

// String returns the string representation of RoomStatus
func (s RoomStatus) String() string {
	return string(s)
}

// Room represents a rentable room.
// Its status is RENTED exactly when one active contract references it; the
// EMPTY<->RENTED transitions are driven only by the contract lifecycle,
// never by generic room edits.
type Room struct {
	shared.BaseAggregateRoot
	BuildingID uuid.UUID
	Name       string
	AreaM2     *decimal.Decimal
	BasePrice  valueobject.Money // Monthly base price
	Bedrooms   int
	Bathrooms  int
	ImageURL   string
	Status     RoomStatus
}

// NewRoom creates a new room in the EMPTY state
func NewRoom(buildingID uuid.UUID, name string, basePrice valueobject.Money, bedrooms, bathrooms int) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROOM_NAME", "Room name cannot be empty")
	}
	if len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_ROOM_NAME", "Room name cannot exceed 50 characters")
	}
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if !basePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price must be greater than zero")
	}
	if bedrooms < 1 {
		return nil, shared.NewDomainError("INVALID_BEDROOMS", "Room must have at least one bedroom")
	}
	if bathrooms < 1 {
		return nil, shared.NewDomainError("INVALID_BATHROOMS", "Room must have at least one bathroom")
	}

	room := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuildingID:        buildingID,
		Name:              name,
		BasePrice:         basePrice,
		Bedrooms:          bedrooms,
		Bathrooms:         bathrooms,
		Status:            RoomStatusEmpty,
	}

	room.AddDomainEvent(NewRoomCreatedEvent(room))

	return room, nil
}

// SetArea sets the room's floor area in square meters
func (r *Room) SetArea(area decimal.Decimal) error {
	if area.IsNegative() || area.IsZero() {
		return shared.NewDomainError("INVALID_AREA", "Area must be greater than zero")
	}

	r.AreaM2 = &area
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetImage sets the room's image reference
func (r *Room) SetImage(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image reference cannot exceed 500 characters")
	}

	r.ImageURL = strings.TrimSpace(url)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetBasePrice updates the monthly base price
func (r *Room) SetBasePrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Base price must be greater than zero")
	}

	r.BasePrice = price
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// IsAvailable returns true if a contract or rental request can target the room
func (r *Room) IsAvailable() bool {
	return r.Status == RoomStatusEmpty
}

// MarkRented flips the room to RENTED on contract activation
func (r *Room) MarkRented() error {
	if r.Status != RoomStatusEmpty {
		return shared.NewDomainError("ROOM_NOT_AVAILABLE",
			fmt.Sprintf("Room is not empty, current status is %s", r.Status))
	}

	r.Status = RoomStatusRented
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoomStatusChangedEvent(r, RoomStatusEmpty))

	return nil
}

// MarkEmpty flips the room back to EMPTY on contract termination
func (r *Room) MarkEmpty() error {
	if r.Status != RoomStatusRented {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Room is not rented, current status is %s", r.Status))
	}

	r.Status = RoomStatusEmpty
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoomStatusChangedEvent(r, RoomStatusRented))

	return nil
}

// EnterMaintenance manually flags an empty room as under maintenance.
// Rented rooms cannot enter maintenance while the contract runs.
func (r *Room) EnterMaintenance() error {
	if r.Status != RoomStatusEmpty {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Only empty rooms can enter maintenance, current status is %s", r.Status))
	}

	previous := r.Status
	r.Status = RoomStatusMaint
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoomStatusChangedEvent(r, previous))

	return nil
}

// ExitMaintenance returns a maintenance room to the EMPTY state
func (r *Room) ExitMaintenance() error {
	if r.Status != RoomStatusMaint {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Room is not under maintenance, current status is %s", r.Status))
	}

	r.Status = RoomStatusEmpty
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoomStatusChangedEvent(r, RoomStatusMaint))

	return nil
}
