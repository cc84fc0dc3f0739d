package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "UNPAID"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that accept no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled
}

// IsOutstanding returns true for invoices that still expect payment
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusOverdue
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice bills one contract for one period. The total is derived from the
// four line components and recomputed whenever a component changes, never
// accepted from callers.
type Invoice struct {
	shared.BaseAggregateRoot
	ContractID   uuid.UUID
	Period       valueobject.Period
	RentAmount   valueobject.Money
	ElectricCost valueobject.Money
	WaterCost    valueobject.Money
	OtherFees    valueobject.Money
	Total        valueobject.Money
	Status       InvoiceStatus
	IssuedAt     time.Time
	DueDate      time.Time
	SentAt       *time.Time
	PaidAt       *time.Time
	CancelledAt  *time.Time
	Notes        string
}

// NewInvoice creates an unpaid invoice for a contract period.
// One-invoice-per-contract-per-period is enforced by the invoice service and
// by a unique index at the data layer.
func NewInvoice(
	contractID uuid.UUID,
	period valueobject.Period,
	rentAmount, electricCost, waterCost, otherFees valueobject.Money,
	issuedAt, dueDate time.Time,
) (*Invoice, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("BAD_PERIOD_FORMAT", "Period is required")
	}
	if rentAmount.IsNegative() || electricCost.IsNegative() || waterCost.IsNegative() || otherFees.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice components cannot be negative")
	}
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	if !dueDate.After(issuedAt) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Due date must be after the issue date")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		Period:            period,
		RentAmount:        rentAmount,
		ElectricCost:      electricCost,
		WaterCost:         waterCost,
		OtherFees:         otherFees,
		Status:            InvoiceStatusUnpaid,
		IssuedAt:          issuedAt,
		DueDate:           dueDate,
	}
	invoice.recomputeTotal()

	invoice.AddDomainEvent(NewInvoiceIssuedEvent(invoice))

	return invoice, nil
}

func (i *Invoice) recomputeTotal() {
	i.Total = i.RentAmount.
		MustAdd(i.ElectricCost).
		MustAdd(i.WaterCost).
		MustAdd(i.OtherFees)
}

// UpdateComponents replaces the invoice line components and recomputes the
// total. Only unpaid invoices may be amended.
func (i *Invoice) UpdateComponents(rentAmount, electricCost, waterCost, otherFees valueobject.Money) error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if i.Status != InvoiceStatusUnpaid {
		return i.invalidTransition(i.Status)
	}
	if rentAmount.IsNegative() || electricCost.IsNegative() || waterCost.IsNegative() || otherFees.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice components cannot be negative")
	}

	i.RentAmount = rentAmount
	i.ElectricCost = electricCost
	i.WaterCost = waterCost
	i.OtherFees = otherFees
	i.recomputeTotal()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkSent records that the invoice was delivered to the tenant. Sending is
// a delivery marker, not a status transition, and is idempotent.
func (i *Invoice) MarkSent() error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if i.SentAt != nil {
		return nil
	}

	now := time.Now()
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceSentEvent(i))

	return nil
}

// MarkPaid settles the invoice. Allowed from UNPAID and OVERDUE only;
// settling an already-paid invoice is a transition error.
func (i *Invoice) MarkPaid() error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if !i.Status.IsOutstanding() {
		return i.invalidTransition(InvoiceStatusPaid)
	}

	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusPaid))

	return nil
}

// MarkOverdue flags an unpaid invoice past its due date. Allowed from
// UNPAID only; flagging twice is a transition error.
func (i *Invoice) MarkOverdue() error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if i.Status != InvoiceStatusUnpaid {
		return i.invalidTransition(InvoiceStatusOverdue)
	}

	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusOverdue))

	return nil
}

// RevertToUnpaid moves a PAID or OVERDUE invoice back to UNPAID. Used by
// payment reconciliation when confirmed payments no longer cover the total.
func (i *Invoice) RevertToUnpaid() error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if i.Status == InvoiceStatusUnpaid {
		return nil
	}

	i.Status = InvoiceStatusUnpaid
	i.PaidAt = nil
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusUnpaid))

	return nil
}

// Cancel voids the invoice. Paid invoices cannot be cancelled.
func (i *Invoice) Cancel() error {
	if err := i.ensureMutable(); err != nil {
		return err
	}
	if i.Status == InvoiceStatusPaid {
		return i.invalidTransition(InvoiceStatusCancelled)
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusCancelled))

	return nil
}

// IsPastDue returns true if the invoice is outstanding and its due date has
// passed as of the given time
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status.IsOutstanding() && now.After(i.DueDate)
}

// DaysOverdue returns the whole days elapsed since the due date, or zero if
// the due date has not passed
func (i *Invoice) DaysOverdue(now time.Time) int {
	if !now.After(i.DueDate) {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}

func (i *Invoice) ensureMutable() error {
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVOICE_CANCELLED", "Invoice has been cancelled and cannot be modified")
	}
	return nil
}

func (i *Invoice) invalidTransition(to InvoiceStatus) error {
	return shared.NewDomainError("INVALID_INVOICE_TRANSITION",
		fmt.Sprintf("Cannot transition invoice from %s to %s", i.Status, to))
}
