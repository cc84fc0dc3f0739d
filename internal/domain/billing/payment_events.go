package billing

import (
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// PaymentRecordedEvent is published when a payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID         `json:"invoice_id"`
	Amount    valueobject.Money `json:"amount"`
	Method    PaymentMethod     `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "Payment", p.ID),
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// PaymentStatusChangedEvent is published when a payment is confirmed or failed
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID         `json:"invoice_id"`
	Status    PaymentStatus     `json:"status"`
	Amount    valueobject.Money `json:"amount"`
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(p *Payment) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentStatusChanged", "Payment", p.ID),
		InvoiceID:       p.InvoiceID,
		Status:          p.Status,
		Amount:          p.Amount,
	}
}
