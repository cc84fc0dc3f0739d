package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func confirmedPayment(t *testing.T, amount int64) *Payment {
	p := createTestPayment(t, amount)
	require.NoError(t, p.Confirm())
	return p
}

func TestConfirmedTotal(t *testing.T) {
	pending := createTestPayment(t, 500000)
	failed := createTestPayment(t, 700000)
	require.NoError(t, failed.Fail())

	payments := []*Payment{
		confirmedPayment(t, 1000000),
		confirmedPayment(t, 800000),
		pending,
		failed,
	}

	total := ConfirmedTotal(payments)
	assert.True(t, total.Equals(valueobject.NewMoneyVNDFromInt(1800000)))
}

func TestReconcile_MarksPaidWhenCovered(t *testing.T) {
	invoice := createTestInvoice(t) // total 3,800,000

	changed, err := Reconcile(invoice, []*Payment{
		confirmedPayment(t, 2000000),
		confirmedPayment(t, 1800000),
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestReconcile_Overpayment(t *testing.T) {
	invoice := createTestInvoice(t)

	changed, err := Reconcile(invoice, []*Payment{confirmedPayment(t, 5000000)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestReconcile_PartialPaymentStaysOutstanding(t *testing.T) {
	invoice := createTestInvoice(t)

	changed, err := Reconcile(invoice, []*Payment{confirmedPayment(t, 1000000)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, InvoiceStatusUnpaid, invoice.Status)
}

func TestReconcile_PendingPaymentsDoNotCount(t *testing.T) {
	invoice := createTestInvoice(t)

	changed, err := Reconcile(invoice, []*Payment{createTestPayment(t, 3800000)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, InvoiceStatusUnpaid, invoice.Status)
}

func TestReconcile_SettlesOverdueInvoice(t *testing.T) {
	invoice := createTestInvoice(t)
	require.NoError(t, invoice.MarkOverdue())

	changed, err := Reconcile(invoice, []*Payment{confirmedPayment(t, 3800000)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestReconcile_RevertsPaidWhenCoverageLost(t *testing.T) {
	invoice := createTestInvoice(t)
	require.NoError(t, invoice.MarkPaid())

	// The covering payment failed after confirmation was undone
	changed, err := Reconcile(invoice, []*Payment{confirmedPayment(t, 1000000)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, InvoiceStatusUnpaid, invoice.Status)
	assert.Nil(t, invoice.PaidAt)
}

func TestReconcile_Idempotent(t *testing.T) {
	invoice := createTestInvoice(t)
	payments := []*Payment{confirmedPayment(t, 3800000)}

	changed, err := Reconcile(invoice, payments)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Reconcile(invoice, payments)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)
}

func TestReconcile_IgnoresCancelledInvoice(t *testing.T) {
	invoice := createTestInvoice(t)
	require.NoError(t, invoice.Cancel())

	changed, err := Reconcile(invoice, []*Payment{confirmedPayment(t, 3800000)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, InvoiceStatusCancelled, invoice.Status)
}
