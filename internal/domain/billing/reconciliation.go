package billing

import (
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// ConfirmedTotal sums the confirmed payments in the slice. Pending and
// failed payments never count toward settlement.
func ConfirmedTotal(payments []*Payment) valueobject.Money {
	total := valueobject.ZeroVND()
	for _, p := range payments {
		if p.IsConfirmed() {
			total = total.MustAdd(p.Amount)
		}
	}
	return total
}

// Reconcile re-derives the invoice status from its confirmed payments:
// an outstanding invoice whose confirmed sum covers the total becomes PAID,
// and a PAID invoice whose confirmed sum no longer covers the total reverts
// to UNPAID. Reconciliation is idempotent and must run after every payment
// mutation, with the invoice and its payments loaded in one transaction.
func Reconcile(invoice *Invoice, payments []*Payment) (bool, error) {
	if invoice.Status == InvoiceStatusCancelled {
		return false, nil
	}

	confirmed := ConfirmedTotal(payments)
	covered, err := confirmed.GreaterThanOrEqual(invoice.Total)
	if err != nil {
		return false, err
	}

	switch {
	case covered && invoice.Status.IsOutstanding():
		if err := invoice.MarkPaid(); err != nil {
			return false, err
		}
		return true, nil
	case !covered && invoice.Status == InvoiceStatusPaid:
		if err := invoice.RevertToUnpaid(); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
