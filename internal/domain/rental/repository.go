package rental

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// BuildingRepository defines the interface for building persistence
type BuildingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Building, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Building, error)
	Save(ctx context.Context, building *Building) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// RoomFilter narrows room queries
type RoomFilter struct {
	shared.Filter
	BuildingID *uuid.UUID
	Status     *RoomStatus
}

// RoomRepository defines the interface for room persistence
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindAll(ctx context.Context, filter RoomFilter) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter RoomFilter) (int64, error)
}

// RentalRequestFilter narrows rental request queries
type RentalRequestFilter struct {
	shared.Filter
	RoomID   *uuid.UUID
	TenantID *uuid.UUID
	Status   *RequestStatus
}

// RentalRequestRepository defines the interface for rental request persistence
type RentalRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentalRequest, error)
	FindAll(ctx context.Context, filter RentalRequestFilter) ([]*RentalRequest, error)
	// FindPendingByRoomAndTenant is the duplicate-pending guard: a tenant may
	// hold at most one PENDING request per room.
	FindPendingByRoomAndTenant(ctx context.Context, roomID, tenantID uuid.UUID) (*RentalRequest, error)
	Save(ctx context.Context, request *RentalRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractFilter narrows contract queries
type ContractFilter struct {
	shared.Filter
	RoomID   *uuid.UUID
	TenantID *uuid.UUID
	Status   *ContractStatus
}

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, filter ContractFilter) ([]*Contract, error)
	FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*Contract, error)
	FindActive(ctx context.Context) ([]*Contract, error)
	Save(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MeterReadingRepository defines the interface for meter reading persistence
type MeterReadingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MeterReading, error)
	FindByContract(ctx context.Context, contractID uuid.UUID, filter shared.Filter) ([]*MeterReading, error)
	FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*MeterReading, error)
	// FindLatestByContract returns the most recent reading for a contract,
	// used to seed the previous meter positions of the next reading.
	FindLatestByContract(ctx context.Context, contractID uuid.UUID) (*MeterReading, error)
	Save(ctx context.Context, reading *MeterReading) error
	Delete(ctx context.Context, id uuid.UUID) error
}
