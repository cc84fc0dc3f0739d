package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func paidInvoice(t *testing.T, rent, electric, water, other int64) *billing.Invoice {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)

	issuedAt := time.Now()
	inv, err := billing.NewInvoice(
		uuid.New(),
		period,
		valueobject.NewMoneyVNDFromInt(rent),
		valueobject.NewMoneyVNDFromInt(electric),
		valueobject.NewMoneyVNDFromInt(water),
		valueobject.NewMoneyVNDFromInt(other),
		issuedAt,
		issuedAt.AddDate(0, 0, 7),
	)
	require.NoError(t, err)
	require.NoError(t, inv.MarkPaid())
	return inv
}

func TestBuildRevenueReport(t *testing.T) {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)

	r := BuildRevenueReport(period, []*billing.Invoice{
		paidInvoice(t, 3500000, 175000, 75000, 0),
		paidInvoice(t, 4000000, 200000, 60000, 50000),
	})

	assert.Equal(t, 2, r.InvoiceCount)
	assert.True(t, r.Rent.Equals(valueobject.NewMoneyVNDFromInt(7500000)))
	assert.True(t, r.Electric.Equals(valueobject.NewMoneyVNDFromInt(375000)))
	assert.True(t, r.Water.Equals(valueobject.NewMoneyVNDFromInt(135000)))
	assert.True(t, r.OtherFees.Equals(valueobject.NewMoneyVNDFromInt(50000)))
	assert.True(t, r.Total.Equals(valueobject.NewMoneyVNDFromInt(8060000)))
}

func TestBuildRevenueReport_Empty(t *testing.T) {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)

	r := BuildRevenueReport(period, nil)
	assert.Equal(t, 0, r.InvoiceCount)
	assert.True(t, r.Total.IsZero())
}

func TestNewArrearsReport(t *testing.T) {
	now := time.Now()
	period, err := valueobject.ParsePeriod("2026-07")
	require.NoError(t, err)

	r := NewArrearsReport(now, []ArrearsEntry{
		{
			InvoiceID:   uuid.New(),
			Period:      period,
			RoomName:    "P.101",
			TenantName:  "Nguyen Van A",
			Amount:      valueobject.NewMoneyVNDFromInt(3800000),
			DueDate:     now.AddDate(0, 0, -10),
			DaysOverdue: 10,
		},
		{
			InvoiceID: uuid.New(),
			Period:    period,
			RoomName:  "P.203",
			Amount:    valueobject.NewMoneyVNDFromInt(4200000),
			DueDate:   now.AddDate(0, 0, -3),
		},
	})

	assert.Len(t, r.Entries, 2)
	assert.True(t, r.Total.Equals(valueobject.NewMoneyVNDFromInt(8000000)))
}

func TestNewArrearsReport_Empty(t *testing.T) {
	r := NewArrearsReport(time.Now(), nil)
	assert.NotNil(t, r.Entries)
	assert.Empty(t, r.Entries)
	assert.True(t, r.Total.IsZero())
}
