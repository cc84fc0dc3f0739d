package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// RentalRequestCreatedEvent is published when a tenant requests a viewing
type RentalRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RoomID      uuid.UUID `json:"room_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	ViewingTime time.Time `json:"viewing_time"`
}

// NewRentalRequestCreatedEvent creates a new RentalRequestCreatedEvent
func NewRentalRequestCreatedEvent(rr *RentalRequest) *RentalRequestCreatedEvent {
	return &RentalRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RentalRequestCreated", "RentalRequest", rr.ID),
		RoomID:          rr.RoomID,
		TenantID:        rr.TenantID,
		ViewingTime:     rr.ViewingTime,
	}
}

// RentalRequestStatusChangedEvent is published when a request is accepted,
// declined or canceled
type RentalRequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	FromStatus RequestStatus `json:"from_status"`
	ToStatus   RequestStatus `json:"to_status"`
}

// NewRentalRequestStatusChangedEvent creates a new RentalRequestStatusChangedEvent
func NewRentalRequestStatusChangedEvent(rr *RentalRequest, from RequestStatus) *RentalRequestStatusChangedEvent {
	return &RentalRequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RentalRequestStatusChanged", "RentalRequest", rr.ID),
		FromStatus:      from,
		ToStatus:        rr.Status,
	}
}
