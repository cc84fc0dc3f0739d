// Package report holds the read models for the owner-facing revenue and
// arrears reports. Reports are derived entirely from invoices and contracts;
// nothing here is persisted.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// RevenueReport totals the paid invoices of one period
type RevenueReport struct {
	Period       valueobject.Period `json:"period"`
	InvoiceCount int                `json:"invoice_count"`
	Rent         valueobject.Money  `json:"rent"`
	Electric     valueobject.Money  `json:"electric"`
	Water        valueobject.Money  `json:"water"`
	OtherFees    valueobject.Money  `json:"other_fees"`
	Total        valueobject.Money  `json:"total"`
}

// BuildRevenueReport aggregates paid invoices into a per-component revenue
// breakdown. Callers pass only the PAID invoices of the period.
func BuildRevenueReport(period valueobject.Period, paid []*billing.Invoice) RevenueReport {
	r := RevenueReport{
		Period:    period,
		Rent:      valueobject.ZeroVND(),
		Electric:  valueobject.ZeroVND(),
		Water:     valueobject.ZeroVND(),
		OtherFees: valueobject.ZeroVND(),
		Total:     valueobject.ZeroVND(),
	}
	for _, inv := range paid {
		r.InvoiceCount++
		r.Rent = r.Rent.MustAdd(inv.RentAmount)
		r.Electric = r.Electric.MustAdd(inv.ElectricCost)
		r.Water = r.Water.MustAdd(inv.WaterCost)
		r.OtherFees = r.OtherFees.MustAdd(inv.OtherFees)
		r.Total = r.Total.MustAdd(inv.Total)
	}
	return r
}

// ArrearsEntry describes one outstanding invoice with enough tenant and room
// context for the owner to chase it
type ArrearsEntry struct {
	InvoiceID   uuid.UUID          `json:"invoice_id"`
	ContractID  uuid.UUID          `json:"contract_id"`
	Period      valueobject.Period `json:"period"`
	RoomName    string             `json:"room_name"`
	TenantName  string             `json:"tenant_name"`
	TenantEmail string             `json:"tenant_email"`
	Amount      valueobject.Money  `json:"amount"`
	DueDate     time.Time          `json:"due_date"`
	DaysOverdue int                `json:"days_overdue"`
}

// ArrearsReport lists all outstanding invoices and their combined total
type ArrearsReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Entries     []ArrearsEntry    `json:"entries"`
	Total       valueobject.Money `json:"total"`
}

// NewArrearsReport totals the entries into a report
func NewArrearsReport(generatedAt time.Time, entries []ArrearsEntry) ArrearsReport {
	total := valueobject.ZeroVND()
	for _, e := range entries {
		total = total.MustAdd(e.Amount)
	}
	if entries == nil {
		entries = []ArrearsEntry{}
	}
	return ArrearsReport{
		GeneratedAt: generatedAt,
		Entries:     entries,
		Total:       total,
	}
}
