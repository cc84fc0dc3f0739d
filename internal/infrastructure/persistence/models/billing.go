package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// At most one non-cancelled invoice per contract per month; the migrations
// enforce this with a partial unique index on (contract_id, period).
type InvoiceModel struct {
	AggregateModel
	ContractID   uuid.UUID             `gorm:"type:uuid;not null;index:idx_invoices_contract_period"`
	Period       valueobject.Period    `gorm:"type:varchar(7);not null;index:idx_invoices_contract_period"`
	RentAmount   valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	ElectricCost valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	WaterCost    valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	OtherFees    valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	Total        valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	Status       billing.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	IssuedAt     time.Time             `gorm:"not null"`
	DueDate      time.Time             `gorm:"not null;index"`
	SentAt       *time.Time            ``
	PaidAt       *time.Time            ``
	CancelledAt  *time.Time            ``
	Notes        string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	invoice := &billing.Invoice{
		ContractID:   m.ContractID,
		Period:       m.Period,
		RentAmount:   m.RentAmount,
		ElectricCost: m.ElectricCost,
		WaterCost:    m.WaterCost,
		OtherFees:    m.OtherFees,
		Total:        m.Total,
		Status:       m.Status,
		IssuedAt:     m.IssuedAt,
		DueDate:      m.DueDate,
		SentAt:       m.SentAt,
		PaidAt:       m.PaidAt,
		CancelledAt:  m.CancelledAt,
		Notes:        m.Notes,
	}
	m.PopulateAggregateRoot(&invoice.BaseAggregateRoot)
	return invoice
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.ContractID = i.ContractID
	m.Period = i.Period
	m.RentAmount = i.RentAmount
	m.ElectricCost = i.ElectricCost
	m.WaterCost = i.WaterCost
	m.OtherFees = i.OtherFees
	m.Total = i.Total
	m.Status = i.Status
	m.IssuedAt = i.IssuedAt
	m.DueDate = i.DueDate
	m.SentAt = i.SentAt
	m.PaidAt = i.PaidAt
	m.CancelledAt = i.CancelledAt
	m.Notes = i.Notes
}

// PaymentModel is the persistence model for the Payment aggregate
type PaymentModel struct {
	AggregateModel
	InvoiceID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	Method      billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status      billing.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	Reference   string                `gorm:"type:varchar(120)"`
	PaidAt      time.Time             `gorm:"not null"`
	ConfirmedAt *time.Time            ``
	Notes       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *billing.Payment {
	payment := &billing.Payment{
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Method:      m.Method,
		Status:      m.Status,
		Reference:   m.Reference,
		PaidAt:      m.PaidAt,
		ConfirmedAt: m.ConfirmedAt,
		Notes:       m.Notes,
	}
	m.PopulateAggregateRoot(&payment.BaseAggregateRoot)
	return payment
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Status = p.Status
	m.Reference = p.Reference
	m.PaidAt = p.PaidAt
	m.ConfirmedAt = p.ConfirmedAt
	m.Notes = p.Notes
}
