package billing

import (
	"context"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
)

// TransactionScope provides transactional access to billing repositories.
// Payment mutations and the reconciliation that follows them must see the
// invoice and all of its payments under one transaction, so the derived
// invoice status can never be computed from a torn read.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction. ContractRepo and ReadingRepo are included because
// invoice generation reads the contract and the period's meter reading under
// the same transaction that inserts the invoice.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
	// ContractRepo returns the contract repository scoped to the current transaction
	ContractRepo() rental.ContractRepository
	// ReadingRepo returns the meter reading repository scoped to the current transaction
	ReadingRepo() rental.MeterReadingRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	invoiceRepo  billing.InvoiceRepository
	paymentRepo  billing.PaymentRepository
	contractRepo rental.ContractRepository
	readingRepo  rental.MeterReadingRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	contractRepo rental.ContractRepository,
	readingRepo rental.MeterReadingRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		contractRepo: contractRepo,
		readingRepo:  readingRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// ContractRepo returns the contract repository.
func (s *NoOpTransactionScope) ContractRepo() rental.ContractRepository {
	return s.contractRepo
}

// ReadingRepo returns the meter reading repository.
func (s *NoOpTransactionScope) ReadingRepo() rental.MeterReadingRepository {
	return s.readingRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
