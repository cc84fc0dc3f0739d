package rental

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

func newReadingService(
	readingRepo *MockMeterReadingRepository,
	contractRepo *MockContractRepository,
	invoiceRepo *MockInvoiceRepository,
) *MeterReadingService {
	txScope := NewNoOpTransactionScope(&MockRoomRepository{}, contractRepo, &MockRentalRequestRepository{}, readingRepo)
	return NewMeterReadingService(readingRepo, contractRepo, invoiceRepo, txScope)
}

func mustPeriod(t *testing.T, s string) valueobject.Period {
	t.Helper()
	period, err := valueobject.ParsePeriod(s)
	require.NoError(t, err)
	return period
}

func newStoredReading(t *testing.T, contractID uuid.UUID, period string, electricCurrent, waterCurrent int64) *rental.MeterReading {
	t.Helper()
	reading, err := rental.NewMeterReading(
		contractID,
		mustPeriod(t, period),
		decimal.Zero, decimal.NewFromInt(electricCurrent),
		decimal.Zero, decimal.NewFromInt(waterCurrent),
		valueobject.NewMoneyVNDFromInt(3500),
		valueobject.NewMoneyVNDFromInt(15000),
	)
	require.NoError(t, err)
	return reading
}

func TestMeterReadingService_RecordReading(t *testing.T) {
	ctx := context.Background()

	baseInput := func(contractID uuid.UUID) RecordReadingInput {
		return RecordReadingInput{
			ContractID:        contractID,
			Period:            "2026-08",
			ElectricCurrent:   decimal.NewFromInt(120),
			WaterCurrent:      decimal.NewFromInt(15),
			ElectricUnitPrice: valueobject.NewMoneyVNDFromInt(3500),
			WaterUnitPrice:    valueobject.NewMoneyVNDFromInt(15000),
		}
	}

	t.Run("seeds previous indexes from the latest reading", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, contractRepo, invoiceRepo)

		contract := newActiveContract(t, uuid.New(), uuid.New())
		latest := newStoredReading(t, contract.ID, "2026-07", 100, 10)

		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindLatestByContract", ctx, contract.ID).Return(latest, nil)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*rental.MeterReading")).Return(nil)

		reading, err := service.RecordReading(ctx, baseInput(contract.ID))

		require.NoError(t, err)
		assert.True(t, reading.ElectricPrevious.Equal(decimal.NewFromInt(100)))
		assert.True(t, reading.WaterPrevious.Equal(decimal.NewFromInt(10)))

		electric, err := reading.ElectricUsage()
		require.NoError(t, err)
		assert.True(t, electric.Consumption.Equal(decimal.NewFromInt(20)))
		assert.True(t, electric.Cost.Equals(valueobject.NewMoneyVNDFromInt(70000)))
	})

	t.Run("first reading starts from zero", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, contractRepo, invoiceRepo)

		contract := newActiveContract(t, uuid.New(), uuid.New())
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindLatestByContract", ctx, contract.ID).Return(nil, nil)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*rental.MeterReading")).Return(nil)

		reading, err := service.RecordReading(ctx, baseInput(contract.ID))

		require.NoError(t, err)
		assert.True(t, reading.ElectricPrevious.IsZero())
		assert.True(t, reading.WaterPrevious.IsZero())
	})

	t.Run("explicit previous indexes skip the latest lookup", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, contractRepo, invoiceRepo)

		contract := newActiveContract(t, uuid.New(), uuid.New())
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("Save", ctx, mock.AnythingOfType("*rental.MeterReading")).Return(nil)

		input := baseInput(contract.ID)
		electricPrev := decimal.NewFromInt(110)
		waterPrev := decimal.NewFromInt(12)
		input.ElectricPrevious = &electricPrev
		input.WaterPrevious = &waterPrev

		reading, err := service.RecordReading(ctx, input)

		require.NoError(t, err)
		assert.True(t, reading.ElectricPrevious.Equal(electricPrev))
		readingRepo.AssertNotCalled(t, "FindLatestByContract", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed period", func(t *testing.T) {
		service := newReadingService(new(MockMeterReadingRepository), new(MockContractRepository), new(MockInvoiceRepository))

		input := baseInput(uuid.New())
		input.Period = "08/2026"

		_, err := service.RecordReading(ctx, input)

		assertDomainErrorCode(t, err, "BAD_PERIOD_FORMAT")
	})

	t.Run("rejects inactive contract", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		service := newReadingService(readingRepo, contractRepo, new(MockInvoiceRepository))

		contract := newActiveContract(t, uuid.New(), uuid.New())
		require.NoError(t, contract.End())
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

		_, err := service.RecordReading(ctx, baseInput(contract.ID))

		assertDomainErrorCode(t, err, "CONTRACT_NOT_ACTIVE")
	})

	t.Run("rejects second reading for the same period", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		service := newReadingService(readingRepo, contractRepo, new(MockInvoiceRepository))

		contract := newActiveContract(t, uuid.New(), uuid.New())
		existing := newStoredReading(t, contract.ID, "2026-08", 100, 10)
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(existing, nil)

		_, err := service.RecordReading(ctx, baseInput(contract.ID))

		assertDomainErrorCode(t, err, "DUPLICATE_READING")
	})

	t.Run("rejects an index that moved backwards", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		contractRepo := new(MockContractRepository)
		service := newReadingService(readingRepo, contractRepo, new(MockInvoiceRepository))

		contract := newActiveContract(t, uuid.New(), uuid.New())
		latest := newStoredReading(t, contract.ID, "2026-07", 200, 20)
		contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
		readingRepo.On("FindByContractAndPeriod", ctx, contract.ID, mustPeriod(t, "2026-08")).Return(nil, nil)
		readingRepo.On("FindLatestByContract", ctx, contract.ID).Return(latest, nil)

		_, err := service.RecordReading(ctx, baseInput(contract.ID)) // current 120 < previous 200

		assertDomainErrorCode(t, err, "NON_MONOTONIC_READING")
	})
}

func TestMeterReadingService_CorrectReading(t *testing.T) {
	ctx := context.Background()

	t.Run("corrects a reading whose period is not invoiced", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, new(MockContractRepository), invoiceRepo)

		reading := newStoredReading(t, uuid.New(), "2026-08", 120, 15)
		readingRepo.On("FindByID", ctx, reading.ID).Return(reading, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, reading.ContractID, reading.Period).Return(nil, nil)
		readingRepo.On("Save", ctx, reading).Return(nil)

		corrected, err := service.CorrectReading(ctx, reading.ID, decimal.NewFromInt(125), decimal.NewFromInt(16))

		require.NoError(t, err)
		assert.True(t, corrected.ElectricCurrent.Equal(decimal.NewFromInt(125)))
		assert.True(t, corrected.WaterCurrent.Equal(decimal.NewFromInt(16)))
	})

	t.Run("rejects correction once the period is invoiced", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, new(MockContractRepository), invoiceRepo)

		reading := newStoredReading(t, uuid.New(), "2026-08", 120, 15)
		invoice, err := billing.NewInvoice(
			reading.ContractID, reading.Period,
			valueobject.NewMoneyVNDFromInt(3_000_000),
			valueobject.ZeroVND(), valueobject.ZeroVND(), valueobject.ZeroVND(),
			time.Now(), time.Now().AddDate(0, 0, 7),
		)
		require.NoError(t, err)

		readingRepo.On("FindByID", ctx, reading.ID).Return(reading, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, reading.ContractID, reading.Period).Return(invoice, nil)

		_, err = service.CorrectReading(ctx, reading.ID, decimal.NewFromInt(125), decimal.NewFromInt(16))

		assertDomainErrorCode(t, err, "DUPLICATE_INVOICE")
	})

	t.Run("cancelled invoice does not block correction", func(t *testing.T) {
		readingRepo := new(MockMeterReadingRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := newReadingService(readingRepo, new(MockContractRepository), invoiceRepo)

		reading := newStoredReading(t, uuid.New(), "2026-08", 120, 15)
		invoice, err := billing.NewInvoice(
			reading.ContractID, reading.Period,
			valueobject.NewMoneyVNDFromInt(3_000_000),
			valueobject.ZeroVND(), valueobject.ZeroVND(), valueobject.ZeroVND(),
			time.Now(), time.Now().AddDate(0, 0, 7),
		)
		require.NoError(t, err)
		require.NoError(t, invoice.Cancel())

		readingRepo.On("FindByID", ctx, reading.ID).Return(reading, nil)
		invoiceRepo.On("FindByContractAndPeriod", ctx, reading.ContractID, reading.Period).Return(invoice, nil)
		readingRepo.On("Save", ctx, reading).Return(nil)

		_, err = service.CorrectReading(ctx, reading.ID, decimal.NewFromInt(125), decimal.NewFromInt(16))

		require.NoError(t, err)
	})
}
