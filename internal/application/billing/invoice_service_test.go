package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func newInvoiceService(
	invoiceRepo *MockInvoiceRepository,
	contractRepo *MockContractRepository,
	readingRepo *MockMeterReadingRepository,
) *InvoiceService {
	txScope := NewNoOpTransactionScope(invoiceRepo, &MockPaymentRepository{}, contractRepo, readingRepo)
	return NewInvoiceService(invoiceRepo, txScope, zap.NewNop())
}

func newActiveContract(t *testing.T) *rental.Contract {
	t.Helper()
	contract, err := rental.NewContract(
		uuid.New(), uuid.New(), nil,
		time.Now(), nil,
		valueobject.NewMoneyVNDFromInt(3_000_000),
		valueobject.NewMoneyVNDFromInt(3_000_000),
		rental.BillingCycleMonthly,
	)
	require.NoError(t, err)
	contract.ClearDomainEvents()
	return contract
}

func mustPeriod(t *testing.T, s string) valueobject.Period {
	t.Helper()
	period, err := valueobject.ParsePeriod(s)
	require.NoError(t, err)
	return period
}

func newReading(t *testing.T, contractID uuid.UUID, period string) *rental.MeterReading {
	t.Helper()
	reading, err := rental.NewMeterReading(
		contractID,
		mustPeriod(t, period),
		decimal.NewFromInt(100), decimal.NewFromInt(120), // 20 kWh
		decimal.NewFromInt(10), decimal.NewFromInt(15), // 5 m3
		valueobject.NewMoneyVNDFromInt(3500),
		valueobject.NewMoneyVNDFromInt(15000),
	)
	require.NoError(t, err)
	return reading
}

func newUnpaidInvoice(t *testing.T, total int64, dueDate time.Time) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(
		uuid.New(), mustPeriod(t, "2026-08"),
		valueobject.NewMoneyVNDFromInt(total),
		valueobject.ZeroVND(), valueobject.ZeroVND(), valueobject.ZeroVND(),
		dueDate.AddDate(0, 0, -7), dueDate,
	)
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	return invoice
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestInvoiceService_GenerateInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("builds invoice from contract rent and period reading", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		contractRepo := new(MockContractRepository)
		readingRepo := new(MockMeterReadingRepository)
		service := newInvoiceService(invoiceRepo, contractRepo, readingRepo)

		contract := newActiveContract(t)
		reading := newReading(t, contract.ID, "2026-08")

		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(reading, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: contract.ID,
			Period:     "2026-08",
			OtherFees:  valueobject.NewMoneyVNDFromInt(100_000),
		})

		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusUnpaid, invoice.Status)
		assert.True(t, invoice.RentAmount.Equals(contract.MonthlyRent))
		assert.True(t, invoice.ElectricCost.Equals(valueobject.NewMoneyVNDFromInt(70_000)))
		assert.True(t, invoice.WaterCost.Equals(valueobject.NewMoneyVNDFromInt(75_000)))
		// 3,000,000 + 70,000 + 75,000 + 100,000
		assert.True(t, invoice.Total.Equals(valueobject.NewMoneyVNDFromInt(3_245_000)))
	})

	t.Run("missing reading yields zero utility costs", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		contractRepo := new(MockContractRepository)
		readingRepo := new(MockMeterReadingRepository)
		service := newInvoiceService(invoiceRepo, contractRepo, readingRepo)

		contract := newActiveContract(t)
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: contract.ID,
			Period:     "2026-08",
		})

		require.NoError(t, err)
		assert.True(t, invoice.ElectricCost.IsZero())
		assert.True(t, invoice.WaterCost.IsZero())
		assert.True(t, invoice.Total.Equals(contract.MonthlyRent))
	})

	t.Run("due date defaults to the configured payment term", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		contractRepo := new(MockContractRepository)
		readingRepo := new(MockMeterReadingRepository)
		service := newInvoiceService(invoiceRepo, contractRepo, readingRepo)
		service.SetPaymentTermDays(14)

		contract := newActiveContract(t)
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		invoice, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: contract.ID,
			Period:     "2026-08",
		})

		require.NoError(t, err)
		assert.WithinDuration(t, invoice.IssuedAt.AddDate(0, 0, 14), invoice.DueDate, time.Second)
	})

	t.Run("rejects duplicate invoice for the period", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		contractRepo := new(MockContractRepository)
		readingRepo := new(MockMeterReadingRepository)
		service := newInvoiceService(invoiceRepo, contractRepo, readingRepo)

		contract := newActiveContract(t)
		existing := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, 0, 7))
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(existing, nil)

		_, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: contract.ID,
			Period:     "2026-08",
		})

		assertDomainErrorCode(t, err, "DUPLICATE_INVOICE")
	})

	t.Run("rejects ended contract", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		contractRepo := new(MockContractRepository)
		service := newInvoiceService(invoiceRepo, contractRepo, new(MockMeterReadingRepository))

		contract := newActiveContract(t)
		require.NoError(t, contract.End())
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

		_, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: contract.ID,
			Period:     "2026-08",
		})

		assertDomainErrorCode(t, err, "CONTRACT_NOT_ACTIVE")
	})

	t.Run("rejects malformed period", func(t *testing.T) {
		service := newInvoiceService(new(MockInvoiceRepository), new(MockContractRepository), new(MockMeterReadingRepository))

		_, err := service.GenerateInvoice(ctx, GenerateInvoiceInput{
			ContractID: uuid.New(),
			Period:     "2026-13",
		})

		assertDomainErrorCode(t, err, "BAD_PERIOD_FORMAT")
	})
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("send then cancel", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, 0, 7))
		invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		sent, err := service.SendInvoice(ctx, invoice.ID)
		require.NoError(t, err)
		assert.NotNil(t, sent.SentAt)

		cancelled, err := service.CancelInvoice(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusCancelled, cancelled.Status)
	})

	t.Run("manual mark-paid then mark-overdue is rejected", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, 0, 7))
		invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		paid, err := service.MarkInvoicePaid(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, paid.Status)
		assert.NotNil(t, paid.PaidAt)

		_, err = service.MarkInvoiceOverdue(ctx, invoice.ID)
		assertDomainErrorCode(t, err, "INVALID_INVOICE_TRANSITION")

		// Settling an already-paid invoice is just as strict
		_, err = service.MarkInvoicePaid(ctx, invoice.ID)
		assertDomainErrorCode(t, err, "INVALID_INVOICE_TRANSITION")
	})

	t.Run("mark-overdue flags an unpaid invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, -1, 0))
		invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		overdue, err := service.MarkInvoiceOverdue(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusOverdue, overdue.Status)
	})

	t.Run("mutating a cancelled invoice fails", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, 0, 7))
		require.NoError(t, invoice.Cancel())
		invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := service.UpdateInvoiceFees(ctx, invoice.ID, valueobject.NewMoneyVNDFromInt(50_000))

		assertDomainErrorCode(t, err, "INVOICE_CANCELLED")
	})

	t.Run("update fees recomputes the total", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, time.Now().AddDate(0, 0, 7))
		invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("Save", ctx, invoice).Return(nil)

		updated, err := service.UpdateInvoiceFees(ctx, invoice.ID, valueobject.NewMoneyVNDFromInt(250_000))

		require.NoError(t, err)
		assert.True(t, updated.Total.Equals(valueobject.NewMoneyVNDFromInt(3_250_000)))
	})
}

func TestInvoiceService_SweepOverdue(t *testing.T) {
	ctx := context.Background()
	asOf := time.Now()

	t.Run("marks unpaid past-due invoices overdue", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		first := newUnpaidInvoice(t, 3_000_000, asOf.AddDate(0, 0, -3))
		second := newUnpaidInvoice(t, 2_500_000, asOf.AddDate(0, 0, -10))
		invoiceRepo.On("FindOutstandingPastDue", ctx, asOf).Return([]*billing.Invoice{first, second}, nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		results, err := service.SweepOverdue(ctx, asOf, false)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].Marked)
		assert.True(t, results[1].Marked)
		assert.Equal(t, billing.InvoiceStatusOverdue, first.Status)
		assert.Equal(t, 3, results[0].DaysOverdue)
		assert.Equal(t, 10, results[1].DaysOverdue)
	})

	t.Run("dry run reports without writing", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, asOf.AddDate(0, 0, -3))
		invoiceRepo.On("FindOutstandingPastDue", ctx, asOf).Return([]*billing.Invoice{invoice}, nil)

		results, err := service.SweepOverdue(ctx, asOf, true)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Marked)
		assert.Equal(t, billing.InvoiceStatusUnpaid, invoice.Status)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("already overdue invoices are reported but not re-marked", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockContractRepository), new(MockMeterReadingRepository))

		invoice := newUnpaidInvoice(t, 3_000_000, asOf.AddDate(0, 0, -3))
		require.NoError(t, invoice.MarkOverdue())
		invoiceRepo.On("FindOutstandingPastDue", ctx, asOf).Return([]*billing.Invoice{invoice}, nil)

		results, err := service.SweepOverdue(ctx, asOf, false)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Marked)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
