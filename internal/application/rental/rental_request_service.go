package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// RentalRequestService handles the rental request lifecycle
type RentalRequestService struct {
	requestRepo    rental.RentalRequestRepository
	roomRepo       rental.RoomRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewRentalRequestService creates a new RentalRequestService
func NewRentalRequestService(
	requestRepo rental.RentalRequestRepository,
	roomRepo rental.RoomRepository,
	txScope TransactionScope,
) *RentalRequestService {
	return &RentalRequestService{
		requestRepo: requestRepo,
		roomRepo:    roomRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *RentalRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RentalRequestService) publishDomainEvents(ctx context.Context, request *rental.RentalRequest) {
	if s.eventPublisher == nil || request == nil {
		return
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	request.ClearDomainEvents()
}

// CreateRequestInput represents a tenant's viewing request
type CreateRequestInput struct {
	RoomID      uuid.UUID
	TenantID    uuid.UUID
	ViewingTime time.Time
	Note        string
}

// CreateRequest creates a pending rental request. The room must be open for
// rent and the tenant must not already hold a pending request for it; both
// checks run inside the transaction that inserts the request.
func (s *RentalRequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*rental.RentalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rental_request", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRoomID, input.RoomID.String(),
		telemetry.SpanAttrTenantID, input.TenantID.String(),
	)

	var request *rental.RentalRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		room, err := repos.RoomRepo().FindByID(ctx, input.RoomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil {
			return shared.NewDomainError("NOT_FOUND", "Room not found")
		}
		if !room.IsAvailable() {
			return shared.NewDomainError("ROOM_NOT_AVAILABLE",
				fmt.Sprintf("Room is not open for rent, current status is %s", room.Status))
		}

		existing, err := repos.RequestRepo().FindPendingByRoomAndTenant(ctx, input.RoomID, input.TenantID)
		if err != nil {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_PENDING_REQUEST",
				"Tenant already has a pending request for this room")
		}

		request, err = rental.NewRentalRequest(input.RoomID, input.TenantID, input.ViewingTime, input.Note)
		if err != nil {
			return err
		}

		return repos.RequestRepo().Save(ctx, request)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, request)
	return request, nil
}

// GetRequest returns a rental request by ID
func (s *RentalRequestService) GetRequest(ctx context.Context, id uuid.UUID) (*rental.RentalRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental request: %w", err)
	}
	if request == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Rental request not found")
	}
	return request, nil
}

// ListRequests returns rental requests matching the filter
func (s *RentalRequestService) ListRequests(ctx context.Context, filter rental.RentalRequestFilter) ([]*rental.RentalRequest, error) {
	requests, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rental requests: %w", err)
	}
	return requests, nil
}

// AcceptRequest accepts a pending request. The request is re-read inside the
// transaction so a concurrent decline or cancel loses cleanly.
func (s *RentalRequestService) AcceptRequest(ctx context.Context, id uuid.UUID) (*rental.RentalRequest, error) {
	return s.transition(ctx, id, "accept", (*rental.RentalRequest).Accept)
}

// DeclineRequest declines a pending request
func (s *RentalRequestService) DeclineRequest(ctx context.Context, id uuid.UUID) (*rental.RentalRequest, error) {
	return s.transition(ctx, id, "decline", (*rental.RentalRequest).Decline)
}

// CancelRequest cancels a pending request on behalf of its tenant
func (s *RentalRequestService) CancelRequest(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*rental.RentalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rental_request", "cancel")
	defer span.End()

	var request *rental.RentalRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.RequestRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get rental request: %w", err)
		}
		if request == nil {
			return shared.NewDomainError("NOT_FOUND", "Rental request not found")
		}
		if request.TenantID != tenantID {
			return shared.ErrForbidden
		}
		if err := request.Cancel(); err != nil {
			return err
		}
		return repos.RequestRepo().Save(ctx, request)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, request)
	return request, nil
}

func (s *RentalRequestService) transition(
	ctx context.Context,
	id uuid.UUID,
	method string,
	apply func(*rental.RentalRequest) error,
) (*rental.RentalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rental_request", method)
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrRequestID, id.String())

	var request *rental.RentalRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.RequestRepo().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get rental request: %w", err)
		}
		if request == nil {
			return shared.NewDomainError("NOT_FOUND", "Rental request not found")
		}
		if err := apply(request); err != nil {
			return err
		}
		return repos.RequestRepo().Save(ctx, request)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, request)
	return request, nil
}
