package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// ContractService handles the contract lifecycle.
// Creation and termination each mutate the contract, the room and optionally
// the originating request, so both run inside a transaction scope with all
// aggregates re-read under the transaction.
type ContractService struct {
	contractRepo   rental.ContractRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo rental.ContractRepository, txScope TransactionScope) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *ContractService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events from the given aggregates
// after a successful commit. Publish errors are logged by the bus.
func (s *ContractService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		aggregate.ClearDomainEvents()
	}
}

// CreateContractInput represents a request to sign a contract
type CreateContractInput struct {
	RoomID          uuid.UUID
	TenantID        uuid.UUID
	RentalRequestID *uuid.UUID
	StartDate       time.Time
	EndDate         *time.Time
	// MonthlyRent overrides the room's base price when set
	MonthlyRent    *valueobject.Money
	Deposit        valueobject.Money
	BillingCycle   rental.BillingCycle
	Notes          string
	SignedImageURL string
}

// CreateContract signs a contract and activates it. Inside one transaction:
// the room is re-read and must be EMPTY, the originating request (if any) is
// re-read and must still be eligible, the room flips to RENTED and the
// request to ACCEPTED. The partial unique index on active contracts backstops
// the re-read against concurrent creations.
func (s *ContractService) CreateContract(ctx context.Context, input CreateContractInput) (*rental.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRoomID, input.RoomID.String(),
		telemetry.SpanAttrTenantID, input.TenantID.String(),
	)

	var (
		contract *rental.Contract
		room     *rental.Room
		request  *rental.RentalRequest
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		room, err = repos.RoomRepo().FindByID(ctx, input.RoomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return shared.NewDomainError("NOT_FOUND", "Room not found")
		}

		if input.RentalRequestID != nil {
			request, err = repos.RequestRepo().FindByID(ctx, *input.RentalRequestID)
			if err != nil {
				return fmt.Errorf("failed to get rental request: %w", err)
			}
			if request == nil {
				return shared.NewDomainError("NOT_FOUND", "Rental request not found")
			}
			if request.RoomID != input.RoomID || request.TenantID != input.TenantID {
				return shared.NewDomainError("REQUEST_NOT_ELIGIBLE",
					"Rental request does not match the room and tenant")
			}
			if !request.EligibleForContract() {
				return shared.NewDomainError("REQUEST_NOT_ELIGIBLE",
					fmt.Sprintf("Rental request is %s and cannot back a contract", request.Status))
			}
		}

		// MarkRented rejects anything but an EMPTY room
		if err := room.MarkRented(); err != nil {
			return err
		}

		monthlyRent := room.BasePrice
		if input.MonthlyRent != nil {
			monthlyRent = *input.MonthlyRent
		}

		contract, err = rental.NewContract(
			input.RoomID,
			input.TenantID,
			input.RentalRequestID,
			input.StartDate,
			input.EndDate,
			monthlyRent,
			input.Deposit,
			input.BillingCycle,
		)
		if err != nil {
			return err
		}
		if input.Notes != "" {
			contract.SetNotes(input.Notes)
		}
		if input.SignedImageURL != "" {
			if err := contract.SetSignedImage(input.SignedImageURL); err != nil {
				return err
			}
		}

		// An already-accepted request stays as is; only pending ones move
		if request != nil && request.IsPending() {
			if err := request.Accept(); err != nil {
				return err
			}
			if err := repos.RequestRepo().Save(ctx, request); err != nil {
				return fmt.Errorf("failed to save rental request: %w", err)
			}
		}
		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}
		if err := repos.RoomRepo().Save(ctx, room); err != nil {
			return fmt.Errorf("failed to save room: %w", err)
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if request != nil {
		s.publishDomainEvents(ctx, contract, room, request)
	} else {
		s.publishDomainEvents(ctx, contract, room)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, contract.ID.String())
	return contract, nil
}

// GetContract returns a contract by ID
func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if contract == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Contract not found")
	}
	return contract, nil
}

// ListContracts returns contracts matching the filter
func (s *ContractService) ListContracts(ctx context.Context, filter rental.ContractFilter) ([]*rental.Contract, error) {
	contracts, err := s.contractRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// EndContract terminates an active contract and releases its room, both in
// one transaction
func (s *ContractService) EndContract(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "end")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, id.String())

	var (
		contract *rental.Contract
		room     *rental.Room
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return shared.NewDomainError("NOT_FOUND", "Contract not found")
		}

		room, err = repos.RoomRepo().FindByID(ctx, contract.RoomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return shared.NewDomainError("NOT_FOUND", "Room not found")
		}

		if err := contract.End(); err != nil {
			return err
		}
		if err := room.MarkEmpty(); err != nil {
			return err
		}

		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}
		return repos.RoomRepo().Save(ctx, room)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, contract, room)
	return contract, nil
}

// SuspendContract pauses an active contract. The room stays RENTED so no
// competing contract can claim it while the suspension is resolved.
func (s *ContractService) SuspendContract(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "suspend")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, id.String())

	contract, err := s.transitionContract(ctx, id, (*rental.Contract).Suspend)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return contract, nil
}

// ResumeContract reactivates a suspended contract
func (s *ContractService) ResumeContract(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "resume")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrContractID, id.String())

	contract, err := s.transitionContract(ctx, id, (*rental.Contract).Resume)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) transitionContract(ctx context.Context, id uuid.UUID, transition func(*rental.Contract) error) (*rental.Contract, error) {
	var contract *rental.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return shared.NewDomainError("NOT_FOUND", "Contract not found")
		}

		if err := transition(contract); err != nil {
			return err
		}
		return repos.ContractRepo().Save(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, contract)
	return contract, nil
}
