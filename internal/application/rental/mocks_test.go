package rental

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// MockEventPublisher records published domain events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockBuildingRepository is a mock implementation of rental.BuildingRepository
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Building), args.Error(1)
}

func (m *MockBuildingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*rental.Building, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.Building), args.Error(1)
}

func (m *MockBuildingRepository) Save(ctx context.Context, building *rental.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBuildingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoomRepository is a mock implementation of rental.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAll(ctx context.Context, filter rental.RoomFilter) ([]*rental.Room, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, room *rental.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomRepository) Count(ctx context.Context, filter rental.RoomFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRentalRequestRepository is a mock implementation of rental.RentalRequestRepository
type MockRentalRequestRepository struct {
	mock.Mock
}

func (m *MockRentalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepository) FindAll(ctx context.Context, filter rental.RentalRequestFilter) ([]*rental.RentalRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepository) FindPendingByRoomAndTenant(ctx context.Context, roomID, tenantID uuid.UUID) (*rental.RentalRequest, error) {
	args := m.Called(ctx, roomID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepository) Save(ctx context.Context, request *rental.RentalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRentalRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of rental.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter rental.ContractFilter) ([]*rental.Contract, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*rental.Contract, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActive(ctx context.Context) ([]*rental.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMeterReadingRepository is a mock implementation of rental.MeterReadingRepository
type MockMeterReadingRepository struct {
	mock.Mock
}

func (m *MockMeterReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.MeterReading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) FindByContract(ctx context.Context, contractID uuid.UUID, filter shared.Filter) ([]*rental.MeterReading, error) {
	args := m.Called(ctx, contractID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*rental.MeterReading, error) {
	args := m.Called(ctx, contractID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) FindLatestByContract(ctx context.Context, contractID uuid.UUID) (*rental.MeterReading, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.MeterReading), args.Error(1)
}

func (m *MockMeterReadingRepository) Save(ctx context.Context, reading *rental.MeterReading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockMeterReadingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository,
// used by the reading correction guard.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*billing.Invoice, error) {
	args := m.Called(ctx, contractID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstandingPastDue(ctx context.Context, asOf time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaidByPeriod(ctx context.Context, period valueobject.Period) ([]*billing.Invoice, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstanding(ctx context.Context) ([]*billing.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
