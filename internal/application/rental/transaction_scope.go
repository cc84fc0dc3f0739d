package rental

import (
	"context"

	"github.com/rentledger/backend/internal/domain/rental"
)

// TransactionScope provides transactional access to rental repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
//
// Contract creation is the main consumer: the room, the contract and the
// originating request must be re-read and written inside one transaction so
// two concurrent creations cannot both observe an EMPTY room.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the rental repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// RoomRepo returns the room repository scoped to the current transaction
	RoomRepo() rental.RoomRepository
	// ContractRepo returns the contract repository scoped to the current transaction
	ContractRepo() rental.ContractRepository
	// RequestRepo returns the rental request repository scoped to the current transaction
	RequestRepo() rental.RentalRequestRepository
	// ReadingRepo returns the meter reading repository scoped to the current transaction
	ReadingRepo() rental.MeterReadingRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	roomRepo     rental.RoomRepository
	contractRepo rental.ContractRepository
	requestRepo  rental.RentalRequestRepository
	readingRepo  rental.MeterReadingRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	roomRepo rental.RoomRepository,
	contractRepo rental.ContractRepository,
	requestRepo rental.RentalRequestRepository,
	readingRepo rental.MeterReadingRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		roomRepo:     roomRepo,
		contractRepo: contractRepo,
		requestRepo:  requestRepo,
		readingRepo:  readingRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RoomRepo returns the room repository.
func (s *NoOpTransactionScope) RoomRepo() rental.RoomRepository {
	return s.roomRepo
}

// ContractRepo returns the contract repository.
func (s *NoOpTransactionScope) ContractRepo() rental.ContractRepository {
	return s.contractRepo
}

// RequestRepo returns the rental request repository.
func (s *NoOpTransactionScope) RequestRepo() rental.RentalRequestRepository {
	return s.requestRepo
}

// ReadingRepo returns the meter reading repository.
func (s *NoOpTransactionScope) ReadingRepo() rental.MeterReadingRepository {
	return s.readingRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
