package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func createTestPayment(t *testing.T, amount int64) *Payment {
	payment, err := NewPayment(
		uuid.New(),
		valueobject.NewMoneyVNDFromInt(amount),
		PaymentMethodBank,
		"FT-20260829-001",
		time.Now(),
	)
	require.NoError(t, err)
	return payment
}

func TestPaymentMethod_IsValid(t *testing.T) {
	tests := []struct {
		method  PaymentMethod
		isValid bool
	}{
		{PaymentMethodCash, true},
		{PaymentMethodBank, true},
		{PaymentMethodOnline, true},
		{PaymentMethod("CHECK"), false},
		{PaymentMethod(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.method.IsValid())
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     PaymentStatus
		isTerminal bool
	}{
		{PaymentStatusPending, false},
		{PaymentStatusConfirmed, true},
		{PaymentStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNewPayment(t *testing.T) {
	payment := createTestPayment(t, 3800000)

	assert.Equal(t, PaymentStatusPending, payment.Status)
	assert.False(t, payment.IsConfirmed())
	assert.Equal(t, "FT-20260829-001", payment.Reference)
	assert.Len(t, payment.GetDomainEvents(), 1)
}

func TestNewPayment_Validation(t *testing.T) {
	amount := valueobject.NewMoneyVNDFromInt(1000000)

	_, err := NewPayment(uuid.Nil, amount, PaymentMethodCash, "", time.Now())
	assertDomainErrorCode(t, err, "INVALID_INVOICE")

	_, err = NewPayment(uuid.New(), valueobject.ZeroVND(), PaymentMethodCash, "", time.Now())
	assertDomainErrorCode(t, err, "INVALID_AMOUNT")

	_, err = NewPayment(uuid.New(), amount.Negate(), PaymentMethodCash, "", time.Now())
	assertDomainErrorCode(t, err, "INVALID_AMOUNT")

	_, err = NewPayment(uuid.New(), amount, PaymentMethod("CHECK"), "", time.Now())
	assertDomainErrorCode(t, err, "INVALID_PAYMENT_METHOD")
}

func TestPayment_Confirm(t *testing.T) {
	payment := createTestPayment(t, 3800000)

	require.NoError(t, payment.Confirm())
	assert.True(t, payment.IsConfirmed())
	require.NotNil(t, payment.ConfirmedAt)

	// Idempotent
	require.NoError(t, payment.Confirm())
}

func TestPayment_Fail(t *testing.T) {
	payment := createTestPayment(t, 3800000)

	require.NoError(t, payment.Fail())
	assert.Equal(t, PaymentStatusFailed, payment.Status)

	// Idempotent
	require.NoError(t, payment.Fail())
}

func TestPayment_FailAfterConfirm(t *testing.T) {
	payment := createTestPayment(t, 3800000)
	require.NoError(t, payment.Confirm())
	require.NotNil(t, payment.ConfirmedAt)

	// A bounced transfer fails after confirmation and no longer counts
	require.NoError(t, payment.Fail())
	assert.Equal(t, PaymentStatusFailed, payment.Status)
	assert.Nil(t, payment.ConfirmedAt)
	assert.False(t, payment.IsConfirmed())
}

func TestPayment_FailedRejectsConfirm(t *testing.T) {
	payment := createTestPayment(t, 3800000)
	require.NoError(t, payment.Fail())
	assertDomainErrorCode(t, payment.Confirm(), "INVALID_TRANSITION")
}
