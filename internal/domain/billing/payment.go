package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodBank   PaymentMethod = "BANK"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodOnline:
		return true
	}
	return false
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that accept no further transitions.
// A confirmed payment can still be failed, so only FAILED is terminal.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed
}

// Payment records money received against an invoice. Only CONFIRMED payments
// count toward settling the invoice; reconciliation re-derives the invoice
// status from the confirmed sum after every payment mutation.
type Payment struct {
	shared.BaseAggregateRoot
	InvoiceID   uuid.UUID
	Amount      valueobject.Money
	Method      PaymentMethod
	Status      PaymentStatus
	Reference   string // Bank or gateway transaction reference
	PaidAt      time.Time
	ConfirmedAt *time.Time
	Notes       string
}

// NewPayment records a pending payment against an invoice
func NewPayment(
	invoiceID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	reference string,
	paidAt time.Time,
) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if len(reference) > 120 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot exceed 120 characters")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		Amount:            amount,
		Method:            method,
		Status:            PaymentStatusPending,
		Reference:         strings.TrimSpace(reference),
		PaidAt:            paidAt,
	}

	payment.AddDomainEvent(NewPaymentRecordedEvent(payment))

	return payment, nil
}

// Confirm marks a pending payment as received
func (p *Payment) Confirm() error {
	if p.Status == PaymentStatusConfirmed {
		return nil
	}
	if p.Status != PaymentStatusPending {
		return p.invalidTransition(PaymentStatusConfirmed)
	}

	now := time.Now()
	p.Status = PaymentStatusConfirmed
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p))

	return nil
}

// Fail marks a payment as failed. Confirmed payments can fail too, e.g. a
// bank transfer that bounces after confirmation; reconciliation then
// re-derives the invoice status without the lost amount.
func (p *Payment) Fail() error {
	if p.Status == PaymentStatusFailed {
		return nil
	}

	p.Status = PaymentStatusFailed
	p.ConfirmedAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p))

	return nil
}

// IsConfirmed returns true if the payment has been confirmed
func (p *Payment) IsConfirmed() bool {
	return p.Status == PaymentStatusConfirmed
}

func (p *Payment) invalidTransition(to PaymentStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition payment from %s to %s", p.Status, to))
}
