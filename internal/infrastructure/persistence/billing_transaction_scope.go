package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/rentledger/backend/internal/application/billing"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

// gormBillingRepositories provides billing repositories bound to one
// transaction.
type gormBillingRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormBillingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormBillingRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// ContractRepo returns the contract repository scoped to the current transaction
func (r *gormBillingRepositories) ContractRepo() rental.ContractRepository {
	return NewGormContractRepository(r.tx)
}

// ReadingRepo returns the meter reading repository scoped to the current transaction
func (r *gormBillingRepositories) ReadingRepo() rental.MeterReadingRepository {
	return NewGormMeterReadingRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
