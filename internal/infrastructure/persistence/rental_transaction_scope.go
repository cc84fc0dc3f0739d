package persistence

import (
	"context"

	"gorm.io/gorm"

	apprental "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
)

// GormRentalTransactionScope implements the rental TransactionScope using
// GORM transactions.
type GormRentalTransactionScope struct {
	db *gorm.DB
}

// NewGormRentalTransactionScope creates a new GormRentalTransactionScope
func NewGormRentalTransactionScope(db *gorm.DB) *GormRentalTransactionScope {
	return &GormRentalTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormRentalTransactionScope) Execute(ctx context.Context, fn func(repos apprental.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRentalRepositories{tx: tx})
	})
}

// gormRentalRepositories provides rental repositories bound to one
// transaction.
type gormRentalRepositories struct {
	tx *gorm.DB
}

// RoomRepo returns the room repository scoped to the current transaction
func (r *gormRentalRepositories) RoomRepo() rental.RoomRepository {
	return NewGormRoomRepository(r.tx)
}

// ContractRepo returns the contract repository scoped to the current transaction
func (r *gormRentalRepositories) ContractRepo() rental.ContractRepository {
	return NewGormContractRepository(r.tx)
}

// RequestRepo returns the rental request repository scoped to the current transaction
func (r *gormRentalRepositories) RequestRepo() rental.RentalRequestRepository {
	return NewGormRentalRequestRepository(r.tx)
}

// ReadingRepo returns the meter reading repository scoped to the current transaction
func (r *gormRentalRepositories) ReadingRepo() rental.MeterReadingRepository {
	return NewGormMeterReadingRepository(r.tx)
}

var _ apprental.TransactionScope = (*GormRentalTransactionScope)(nil)
var _ apprental.TransactionalRepositories = (*gormRentalRepositories)(nil)
