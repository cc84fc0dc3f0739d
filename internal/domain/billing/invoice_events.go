package billing

import (
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// InvoiceIssuedEvent is published when a new invoice is generated
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID          `json:"contract_id"`
	Period     valueobject.Period `json:"period"`
	Total      valueobject.Money  `json:"total"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceIssued", "Invoice", inv.ID),
		ContractID:      inv.ContractID,
		Period:          inv.Period,
		Total:           inv.Total,
	}
}

// InvoiceSentEvent is published when an invoice is delivered to the tenant
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID          `json:"contract_id"`
	Period     valueobject.Period `json:"period"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceSent", "Invoice", inv.ID),
		ContractID:      inv.ContractID,
		Period:          inv.Period,
	}
}

// InvoiceStatusChangedEvent is published on every invoice status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID         `json:"contract_id"`
	Status     InvoiceStatus     `json:"status"`
	Total      valueobject.Money `json:"total"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, status InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceStatusChanged", "Invoice", inv.ID),
		ContractID:      inv.ContractID,
		Status:          status,
		Total:           inv.Total,
	}
}
