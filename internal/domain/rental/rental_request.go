package rental

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// MinViewingLeadTime is the minimum gap between request creation and the
// proposed viewing time.
const MinViewingLeadTime = 30 * time.Minute

// RequestStatus represents the status of a rental request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusDeclined RequestStatus = "DECLINED"
	RequestStatusCanceled RequestStatus = "CANCELED"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDeclined, RequestStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s RequestStatus) IsTerminal() bool {
	return s != RequestStatusPending
}

// RentalRequest is a tenant's request to view and rent a room.
// It starts PENDING and ends in exactly one of ACCEPTED, DECLINED or
// CANCELED; terminal states never transition again.
type RentalRequest struct {
	shared.BaseAggregateRoot
	RoomID      uuid.UUID
	TenantID    uuid.UUID
	ViewingTime time.Time
	Note        string
	Status      RequestStatus
}

// NewRentalRequest creates a pending rental request.
// The room availability and duplicate-pending checks belong to the
// application service, which re-reads state inside a transaction.
func NewRentalRequest(roomID, tenantID uuid.UUID, viewingTime time.Time, note string) (*RentalRequest, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if viewingTime.Before(time.Now().Add(MinViewingLeadTime)) {
		return nil, shared.NewDomainError("VIEWING_TIME_TOO_SOON",
			fmt.Sprintf("Viewing time must be at least %s from now", MinViewingLeadTime))
	}
	if len(note) > 1000 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 1000 characters")
	}

	req := &RentalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoomID:            roomID,
		TenantID:          tenantID,
		ViewingTime:       viewingTime,
		Note:              note,
		Status:            RequestStatusPending,
	}

	req.AddDomainEvent(NewRentalRequestCreatedEvent(req))

	return req, nil
}

// Accept transitions the request to ACCEPTED. Only pending requests can be
// accepted; accepting twice is a transition error.
func (rr *RentalRequest) Accept() error {
	if rr.Status != RequestStatusPending {
		return rr.invalidTransition(RequestStatusAccepted)
	}

	rr.transition(RequestStatusAccepted)
	return nil
}

// Decline transitions the request to DECLINED
func (rr *RentalRequest) Decline() error {
	if rr.Status != RequestStatusPending {
		return rr.invalidTransition(RequestStatusDeclined)
	}

	rr.transition(RequestStatusDeclined)
	return nil
}

// Cancel transitions the request to CANCELED. Only the originating tenant
// may cancel; the capability check happens at the service boundary.
func (rr *RentalRequest) Cancel() error {
	if rr.Status != RequestStatusPending {
		return rr.invalidTransition(RequestStatusCanceled)
	}

	rr.transition(RequestStatusCanceled)
	return nil
}

// IsPending returns true if the request is still open
func (rr *RentalRequest) IsPending() bool {
	return rr.Status == RequestStatusPending
}

// EligibleForContract returns true if a contract may reference this request
func (rr *RentalRequest) EligibleForContract() bool {
	return rr.Status == RequestStatusPending || rr.Status == RequestStatusAccepted
}

func (rr *RentalRequest) transition(to RequestStatus) {
	from := rr.Status
	rr.Status = to
	rr.UpdatedAt = time.Now()
	rr.IncrementVersion()
	rr.AddDomainEvent(NewRentalRequestStatusChangedEvent(rr, from))
}

func (rr *RentalRequest) invalidTransition(to RequestStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition rental request from %s to %s", rr.Status, to))
}
