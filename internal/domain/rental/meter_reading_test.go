package rental

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func createTestReading(t *testing.T) *MeterReading {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)

	reading, err := NewMeterReading(
		uuid.New(),
		period,
		decimal.NewFromInt(100), decimal.NewFromInt(150),
		decimal.NewFromInt(20), decimal.NewFromInt(25),
		valueobject.NewMoneyVNDFromInt(3500),
		valueobject.NewMoneyVNDFromInt(15000),
	)
	require.NoError(t, err)
	return reading
}

func TestNewMeterReading(t *testing.T) {
	reading := createTestReading(t)

	assert.Equal(t, "2026-08", reading.Period.String())
	assert.False(t, reading.ReadAt.IsZero())

	electric, err := reading.ElectricUsage()
	require.NoError(t, err)
	assert.True(t, electric.Consumption.Equal(decimal.NewFromInt(50)))
	assert.True(t, electric.Cost.Equals(valueobject.NewMoneyVNDFromInt(175000)))

	water, err := reading.WaterUsage()
	require.NoError(t, err)
	assert.True(t, water.Consumption.Equal(decimal.NewFromInt(5)))
	assert.True(t, water.Cost.Equals(valueobject.NewMoneyVNDFromInt(75000)))
}

func TestNewMeterReading_NonMonotonic(t *testing.T) {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)

	_, err = NewMeterReading(
		uuid.New(),
		period,
		decimal.NewFromInt(150), decimal.NewFromInt(100),
		decimal.NewFromInt(20), decimal.NewFromInt(25),
		valueobject.NewMoneyVNDFromInt(3500),
		valueobject.NewMoneyVNDFromInt(15000),
	)
	assertDomainErrorCode(t, err, "NON_MONOTONIC_READING")

	_, err = NewMeterReading(
		uuid.New(),
		period,
		decimal.NewFromInt(100), decimal.NewFromInt(150),
		decimal.NewFromInt(25), decimal.NewFromInt(20),
		valueobject.NewMoneyVNDFromInt(3500),
		valueobject.NewMoneyVNDFromInt(15000),
	)
	assertDomainErrorCode(t, err, "NON_MONOTONIC_READING")
}

func TestNewMeterReading_Validation(t *testing.T) {
	period, err := valueobject.ParsePeriod("2026-08")
	require.NoError(t, err)
	elec := valueobject.NewMoneyVNDFromInt(3500)
	water := valueobject.NewMoneyVNDFromInt(15000)
	idx := decimal.NewFromInt(10)

	_, err = NewMeterReading(uuid.Nil, period, idx, idx, idx, idx, elec, water)
	assertDomainErrorCode(t, err, "INVALID_CONTRACT")

	_, err = NewMeterReading(uuid.New(), valueobject.Period{}, idx, idx, idx, idx, elec, water)
	assertDomainErrorCode(t, err, "BAD_PERIOD_FORMAT")

	_, err = NewMeterReading(uuid.New(), period, idx, idx, idx, idx, elec.Negate(), water)
	assertDomainErrorCode(t, err, "INVALID_PRICE")
}

func TestMeterReading_Correct(t *testing.T) {
	reading := createTestReading(t)

	require.NoError(t, reading.Correct(decimal.NewFromInt(160), decimal.NewFromInt(26)))
	assert.True(t, reading.ElectricCurrent.Equal(decimal.NewFromInt(160)))
	assert.True(t, reading.WaterCurrent.Equal(decimal.NewFromInt(26)))

	err := reading.Correct(decimal.NewFromInt(90), decimal.NewFromInt(26))
	assertDomainErrorCode(t, err, "NON_MONOTONIC_READING")
	// Failed correction leaves the reading untouched
	assert.True(t, reading.ElectricCurrent.Equal(decimal.NewFromInt(160)))
}
