package rental

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// MeterReadingService handles meter reading capture for active contracts
type MeterReadingService struct {
	readingRepo  rental.MeterReadingRepository
	contractRepo rental.ContractRepository
	invoiceRepo  billing.InvoiceRepository
	txScope      TransactionScope
}

// NewMeterReadingService creates a new MeterReadingService
func NewMeterReadingService(
	readingRepo rental.MeterReadingRepository,
	contractRepo rental.ContractRepository,
	invoiceRepo billing.InvoiceRepository,
	txScope TransactionScope,
) *MeterReadingService {
	return &MeterReadingService{
		readingRepo:  readingRepo,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		txScope:      txScope,
	}
}

// RecordReadingInput represents a request to record a meter reading
type RecordReadingInput struct {
	ContractID uuid.UUID
	Period     string // "YYYY-MM"
	// Previous indexes are optional; when nil they are seeded from the
	// contract's latest stored reading, or zero for the first reading.
	ElectricPrevious  *decimal.Decimal
	WaterPrevious     *decimal.Decimal
	ElectricCurrent   decimal.Decimal
	WaterCurrent      decimal.Decimal
	ElectricUnitPrice valueobject.Money
	WaterUnitPrice    valueobject.Money
}

// RecordReading records a meter reading for a contract period. The contract
// must be ACTIVE and the period must not already carry a reading; both are
// checked inside the transaction that inserts the row, with a unique index
// on (contract_id, period) as the backstop.
func (s *MeterReadingService) RecordReading(ctx context.Context, input RecordReadingInput) (*rental.MeterReading, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "meter_reading", "record")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractID, input.ContractID.String(),
		telemetry.SpanAttrPeriod, input.Period,
	)

	period, err := valueobject.ParsePeriod(input.Period)
	if err != nil {
		err = shared.NewDomainError("BAD_PERIOD_FORMAT", err.Error())
		telemetry.RecordError(span, err)
		return nil, err
	}

	var reading *rental.MeterReading
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		contract, err := repos.ContractRepo().FindByID(ctx, input.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if contract == nil {
			return shared.NewDomainError("NOT_FOUND", "Contract not found")
		}
		if !contract.IsActive() {
			return shared.NewDomainError("CONTRACT_NOT_ACTIVE",
				fmt.Sprintf("Contract is %s, readings require an active contract", contract.Status))
		}

		existing, err := repos.ReadingRepo().FindByContractAndPeriod(ctx, input.ContractID, period)
		if err != nil {
			return fmt.Errorf("failed to check existing reading: %w", err)
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_READING",
				fmt.Sprintf("Contract already has a reading for %s", period))
		}

		electricPrevious, waterPrevious := decimal.Zero, decimal.Zero
		if input.ElectricPrevious != nil {
			electricPrevious = *input.ElectricPrevious
		}
		if input.WaterPrevious != nil {
			waterPrevious = *input.WaterPrevious
		}
		if input.ElectricPrevious == nil || input.WaterPrevious == nil {
			latest, err := repos.ReadingRepo().FindLatestByContract(ctx, input.ContractID)
			if err != nil {
				return fmt.Errorf("failed to get latest reading: %w", err)
			}
			if latest != nil {
				if input.ElectricPrevious == nil {
					electricPrevious = latest.ElectricCurrent
				}
				if input.WaterPrevious == nil {
					waterPrevious = latest.WaterCurrent
				}
			}
		}

		reading, err = rental.NewMeterReading(
			input.ContractID,
			period,
			electricPrevious, input.ElectricCurrent,
			waterPrevious, input.WaterCurrent,
			input.ElectricUnitPrice, input.WaterUnitPrice,
		)
		if err != nil {
			return err
		}

		return repos.ReadingRepo().Save(ctx, reading)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return reading, nil
}

// GetReading returns a meter reading by ID
func (s *MeterReadingService) GetReading(ctx context.Context, id uuid.UUID) (*rental.MeterReading, error) {
	reading, err := s.readingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meter reading: %w", err)
	}
	if reading == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Meter reading not found")
	}
	return reading, nil
}

// ListReadings returns the readings of a contract
func (s *MeterReadingService) ListReadings(ctx context.Context, contractID uuid.UUID, filter shared.Filter) ([]*rental.MeterReading, error) {
	readings, err := s.readingRepo.FindByContract(ctx, contractID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list meter readings: %w", err)
	}
	return readings, nil
}

// CorrectReading replaces the current indexes of a reading whose period has
// not yet been invoiced
func (s *MeterReadingService) CorrectReading(ctx context.Context, id uuid.UUID, electricCurrent, waterCurrent decimal.Decimal) (*rental.MeterReading, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "meter_reading", "correct")
	defer span.End()

	reading, err := s.GetReading(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByContractAndPeriod(ctx, reading.ContractID, reading.Period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check invoice: %w", err)
	}
	if invoice != nil && invoice.Status != billing.InvoiceStatusCancelled {
		err = shared.NewDomainError("DUPLICATE_INVOICE",
			fmt.Sprintf("Period %s has already been invoiced", reading.Period))
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := reading.Correct(electricCurrent, waterCurrent); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.readingRepo.Save(ctx, reading); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save meter reading: %w", err)
	}

	return reading, nil
}
