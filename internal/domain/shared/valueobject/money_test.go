package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyVNDFromString(t *testing.T) {
	m, err := NewMoneyVNDFromString("3500000")
	require.NoError(t, err)
	assert.True(t, m.Equals(NewMoneyVNDFromInt(3500000)))
	assert.Equal(t, VND, m.Currency())

	_, err = NewMoneyVNDFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyVNDFromInt(1000)
	b := NewMoneyVNDFromInt(500)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewMoneyVNDFromInt(1500)))

	// Operands are immutable
	assert.True(t, a.Equals(NewMoneyVNDFromInt(1000)))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyVNDFromInt(1000)
	b, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)

	assert.Panics(t, func() { a.MustAdd(b) })
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyVNDFromInt(1000)
	b := NewMoneyVNDFromInt(1500)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Equals(NewMoneyVNDFromInt(-500)))
}

func TestMoney_Multiply(t *testing.T) {
	price := NewMoneyVNDFromInt(3500)

	cost := price.Multiply(decimal.RequireFromString("2.5"))
	assert.True(t, cost.Equals(NewMoneyVNDFromInt(8750)))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyVNDFromInt(100)
	large := NewMoneyVNDFromInt(200)

	less, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := large.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	gte, err = small.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)
}

func TestMoney_SignPredicates(t *testing.T) {
	assert.True(t, ZeroVND().IsZero())
	assert.True(t, NewMoneyVNDFromInt(1).IsPositive())
	assert.True(t, NewMoneyVNDFromInt(-1).IsNegative())
	assert.False(t, ZeroVND().IsPositive())
	assert.False(t, ZeroVND().IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyVNDFromInt(3500000)

	data, err := m.MarshalJSON()
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_ScanValue(t *testing.T) {
	m := NewMoneyVNDFromInt(3500000)

	v, err := m.Value()
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, decoded.Scan(v))
	assert.True(t, decoded.Amount().Equal(m.Amount()))
}
