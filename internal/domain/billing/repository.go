package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	shared.Filter
	ContractID *uuid.UUID
	Status     *InvoiceStatus
	Period     *valueobject.Period
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, error)
	// FindByContractAndPeriod is the duplicate-invoice guard: at most one
	// live invoice per contract per period. Cancelled invoices do not
	// count, so a cancelled period can be billed again.
	FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*Invoice, error)
	// FindOutstandingPastDue returns UNPAID and OVERDUE invoices whose due
	// date is before the given time, for the overdue sweep.
	FindOutstandingPastDue(ctx context.Context, asOf time.Time) ([]*Invoice, error)
	// FindPaidByPeriod backs the revenue report.
	FindPaidByPeriod(ctx context.Context, period valueobject.Period) ([]*Invoice, error)
	// FindOutstanding returns all UNPAID and OVERDUE invoices, for the
	// arrears report.
	FindOutstanding(ctx context.Context) ([]*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentFilter narrows payment queries
type PaymentFilter struct {
	shared.Filter
	InvoiceID *uuid.UUID
	Status    *PaymentStatus
	Method    *PaymentMethod
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) ([]*Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
