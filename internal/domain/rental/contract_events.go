package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// ContractActivatedEvent is published when a contract is created and activated
type ContractActivatedEvent struct {
	shared.BaseDomainEvent
	RoomID      uuid.UUID         `json:"room_id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	StartDate   time.Time         `json:"start_date"`
	MonthlyRent valueobject.Money `json:"monthly_rent"`
}

// NewContractActivatedEvent creates a new ContractActivatedEvent
func NewContractActivatedEvent(c *Contract) *ContractActivatedEvent {
	return &ContractActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractActivated", "Contract", c.ID),
		RoomID:          c.RoomID,
		TenantID:        c.TenantID,
		StartDate:       c.StartDate,
		MonthlyRent:     c.MonthlyRent,
	}
}

// ContractEndedEvent is published when a contract is terminated
type ContractEndedEvent struct {
	shared.BaseDomainEvent
	RoomID   uuid.UUID `json:"room_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	EndedAt  time.Time `json:"ended_at"`
}

// NewContractEndedEvent creates a new ContractEndedEvent
func NewContractEndedEvent(c *Contract) *ContractEndedEvent {
	var endedAt time.Time
	if c.EndedAt != nil {
		endedAt = *c.EndedAt
	}
	return &ContractEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractEnded", "Contract", c.ID),
		RoomID:          c.RoomID,
		TenantID:        c.TenantID,
		EndedAt:         endedAt,
	}
}
