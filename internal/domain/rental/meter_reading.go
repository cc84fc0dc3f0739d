package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// MeterReading records the electricity and water meter positions for one
// contract and one billing period. Readings must be monotonic against the
// recorded previous positions; the previous positions are carried on the
// reading itself so each row is self-contained for billing.
type MeterReading struct {
	shared.BaseAggregateRoot
	ContractID        uuid.UUID
	Period            valueobject.Period
	ElectricPrevious  decimal.Decimal
	ElectricCurrent   decimal.Decimal
	WaterPrevious     decimal.Decimal
	WaterCurrent      decimal.Decimal
	ElectricUnitPrice valueobject.Money
	WaterUnitPrice    valueobject.Money
	ReadAt            time.Time
}

// NewMeterReading creates a meter reading after validating that both meters
// moved forward. Contract-must-be-active and one-reading-per-period checks
// live in the reading service, where the contract and existing rows are
// visible.
func NewMeterReading(
	contractID uuid.UUID,
	period valueobject.Period,
	electricPrevious, electricCurrent decimal.Decimal,
	waterPrevious, waterCurrent decimal.Decimal,
	electricUnitPrice, waterUnitPrice valueobject.Money,
) (*MeterReading, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("BAD_PERIOD_FORMAT", "Period is required")
	}
	if electricUnitPrice.IsNegative() || waterUnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit prices cannot be negative")
	}

	if _, err := CalculateUsage(electricPrevious, electricCurrent, electricUnitPrice); err != nil {
		return nil, err
	}
	if _, err := CalculateUsage(waterPrevious, waterCurrent, waterUnitPrice); err != nil {
		return nil, err
	}

	return &MeterReading{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		Period:            period,
		ElectricPrevious:  electricPrevious,
		ElectricCurrent:   electricCurrent,
		WaterPrevious:     waterPrevious,
		WaterCurrent:      waterCurrent,
		ElectricUnitPrice: electricUnitPrice,
		WaterUnitPrice:    waterUnitPrice,
		ReadAt:            time.Now(),
	}, nil
}

// ElectricUsage returns the electricity consumption and cost for the period
func (m *MeterReading) ElectricUsage() (UtilityUsage, error) {
	return CalculateUsage(m.ElectricPrevious, m.ElectricCurrent, m.ElectricUnitPrice)
}

// WaterUsage returns the water consumption and cost for the period
func (m *MeterReading) WaterUsage() (UtilityUsage, error) {
	return CalculateUsage(m.WaterPrevious, m.WaterCurrent, m.WaterUnitPrice)
}

// Correct replaces the current meter positions, re-validating monotonicity.
// Corrections are only meaningful before the period has been invoiced; the
// reading service rejects them afterwards.
func (m *MeterReading) Correct(electricCurrent, waterCurrent decimal.Decimal) error {
	if _, err := CalculateUsage(m.ElectricPrevious, electricCurrent, m.ElectricUnitPrice); err != nil {
		return err
	}
	if _, err := CalculateUsage(m.WaterPrevious, waterCurrent, m.WaterUnitPrice); err != nil {
		return err
	}

	m.ElectricCurrent = electricCurrent
	m.WaterCurrent = waterCurrent
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}
