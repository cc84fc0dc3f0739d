package rental

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func TestCalculateUsage(t *testing.T) {
	unitPrice := valueobject.NewMoneyVNDFromInt(3500)

	usage, err := CalculateUsage(decimal.NewFromInt(100), decimal.NewFromInt(150), unitPrice)
	require.NoError(t, err)
	assert.True(t, usage.Consumption.Equal(decimal.NewFromInt(50)))
	assert.True(t, usage.Cost.Equals(valueobject.NewMoneyVNDFromInt(175000)))
}

func TestCalculateUsage_ZeroConsumption(t *testing.T) {
	unitPrice := valueobject.NewMoneyVNDFromInt(3500)

	usage, err := CalculateUsage(decimal.NewFromInt(100), decimal.NewFromInt(100), unitPrice)
	require.NoError(t, err)
	assert.True(t, usage.Consumption.IsZero())
	assert.True(t, usage.Cost.IsZero())
}

func TestCalculateUsage_FractionalIndexes(t *testing.T) {
	unitPrice := valueobject.NewMoneyVNDFromInt(10000)

	usage, err := CalculateUsage(
		decimal.RequireFromString("12.5"),
		decimal.RequireFromString("14.75"),
		unitPrice,
	)
	require.NoError(t, err)
	assert.True(t, usage.Consumption.Equal(decimal.RequireFromString("2.25")))
	assert.True(t, usage.Cost.Equals(valueobject.NewMoneyVNDFromInt(22500)))
}

func TestCalculateUsage_NonMonotonic(t *testing.T) {
	unitPrice := valueobject.NewMoneyVNDFromInt(3500)

	_, err := CalculateUsage(decimal.NewFromInt(150), decimal.NewFromInt(100), unitPrice)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NON_MONOTONIC_READING", domainErr.Code)
}

func TestCalculateUsage_NegativeInputs(t *testing.T) {
	unitPrice := valueobject.NewMoneyVNDFromInt(3500)

	tests := []struct {
		name     string
		previous decimal.Decimal
		current  decimal.Decimal
	}{
		{"negative previous", decimal.NewFromInt(-1), decimal.NewFromInt(10)},
		{"negative current", decimal.NewFromInt(0), decimal.NewFromInt(-10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateUsage(tt.previous, tt.current, unitPrice)
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		})
	}
}

func TestCalculateUsage_NegativeUnitPrice(t *testing.T) {
	price := valueobject.NewMoneyVNDFromInt(3500).Negate()

	_, err := CalculateUsage(decimal.NewFromInt(0), decimal.NewFromInt(10), price)
	require.Error(t, err)
}
