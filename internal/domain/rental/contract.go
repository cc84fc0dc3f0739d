package rental

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// ContractStatus represents the status of a contract
type ContractStatus string

const (
	// ContractStatusPending exists for provisionally created contracts. The
	// billing flow only works against ACTIVE contracts, so new contracts are
	// created directly ACTIVE and PENDING is currently unused.
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusEnded     ContractStatus = "ENDED"
	ContractStatusSuspended ContractStatus = "SUSPENDED"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusEnded, ContractStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// BillingCycle labels how often a contract is invoiced
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "MONTHLY"
	BillingCycleQuarterly BillingCycle = "QUARTERLY"
)

// IsValid checks if the billing cycle is valid
func (c BillingCycle) IsValid() bool {
	return c == BillingCycleMonthly || c == BillingCycleQuarterly
}

// Contract binds a tenant to a room for a date range at an agreed rent.
// At most one contract per room may be ACTIVE at any time; that invariant
// is also enforced by a partial unique index at the data layer so a
// concurrent creation race cannot produce two active contracts.
type Contract struct {
	shared.BaseAggregateRoot
	RoomID          uuid.UUID
	TenantID        uuid.UUID
	RentalRequestID *uuid.UUID // Optional originating request
	StartDate       time.Time
	EndDate         *time.Time
	MonthlyRent     valueobject.Money // Defaults from the room's base price unless overridden
	Deposit         valueobject.Money
	BillingCycle    BillingCycle
	Status          ContractStatus
	Notes           string
	SignedImageURL  string // Reference to the signed contract scan
	EndedAt         *time.Time
}

// NewContract creates a contract in the ACTIVE state.
// Room availability and request eligibility are re-checked by the contract
// service inside the transaction that also flips the room and request.
func NewContract(
	roomID, tenantID uuid.UUID,
	rentalRequestID *uuid.UUID,
	startDate time.Time,
	endDate *time.Time,
	monthlyRent valueobject.Money,
	deposit valueobject.Money,
	billingCycle BillingCycle,
) (*Contract, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Start date is required")
	}
	if endDate != nil && !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after start date")
	}
	if !monthlyRent.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RENT", "Monthly rent must be greater than zero")
	}
	if deposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT", "Deposit cannot be negative")
	}
	if billingCycle == "" {
		billingCycle = BillingCycleMonthly
	}
	if !billingCycle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Billing cycle is not valid")
	}

	contract := &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoomID:            roomID,
		TenantID:          tenantID,
		RentalRequestID:   rentalRequestID,
		StartDate:         startDate,
		EndDate:           endDate,
		MonthlyRent:       monthlyRent,
		Deposit:           deposit,
		BillingCycle:      billingCycle,
		Status:            ContractStatusActive,
	}

	contract.AddDomainEvent(NewContractActivatedEvent(contract))

	return contract, nil
}

// End terminates an active contract
func (c *Contract) End() error {
	if c.Status != ContractStatusActive {
		return c.invalidTransition(ContractStatusEnded)
	}

	now := time.Now()
	c.Status = ContractStatusEnded
	c.EndedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewContractEndedEvent(c))

	return nil
}

// Suspend pauses an active contract without releasing the room
func (c *Contract) Suspend() error {
	if c.Status != ContractStatusActive {
		return c.invalidTransition(ContractStatusSuspended)
	}

	c.Status = ContractStatusSuspended
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Resume reactivates a suspended contract
func (c *Contract) Resume() error {
	if c.Status != ContractStatusSuspended {
		return c.invalidTransition(ContractStatusActive)
	}

	c.Status = ContractStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the free-text notes
func (c *Contract) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetSignedImage records a reference to the signed contract scan
func (c *Contract) SetSignedImage(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image reference cannot exceed 500 characters")
	}

	c.SignedImageURL = strings.TrimSpace(url)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the contract is active
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

func (c *Contract) invalidTransition(to ContractStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition contract from %s to %s", c.Status, to))
}
