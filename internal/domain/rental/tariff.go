package rental

import (
	"fmt"

	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UtilityUsage is the result of a tariff calculation for one utility:
// the consumed quantity between two meter indexes and its cost at the
// given per-unit price.
type UtilityUsage struct {
	Consumption decimal.Decimal
	Cost        valueobject.Money
}

// CalculateUsage converts a meter index pair and a per-unit price into
// consumption and cost. It fails if the current index is below the previous
// one; a shrinking index is rejected, never clamped to zero.
//
// Both meter-reading validation and invoice generation go through this
// function so an invoice total stays reproducible from the stored reading.
func CalculateUsage(previous, current decimal.Decimal, unitPrice valueobject.Money) (UtilityUsage, error) {
	if previous.IsNegative() || current.IsNegative() {
		return UtilityUsage{}, shared.NewDomainError("INVALID_INPUT", "Meter indexes cannot be negative")
	}
	if unitPrice.IsNegative() {
		return UtilityUsage{}, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if current.LessThan(previous) {
		return UtilityUsage{}, shared.NewDomainError("NON_MONOTONIC_READING",
			fmt.Sprintf("Current index %s cannot be below previous index %s", current, previous))
	}

	consumption := current.Sub(previous)
	return UtilityUsage{
		Consumption: consumption,
		Cost:        unitPrice.Multiply(consumption),
	}, nil
}
