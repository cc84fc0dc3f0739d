package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// setupBillingTestDB creates an in-memory SQLite database with the invoice
// and payment tables
func setupBillingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE invoices (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			contract_id TEXT NOT NULL,
			period TEXT NOT NULL,
			rent_amount TEXT NOT NULL,
			electric_cost TEXT NOT NULL,
			water_cost TEXT NOT NULL,
			other_fees TEXT NOT NULL,
			total TEXT NOT NULL,
			status TEXT NOT NULL,
			issued_at DATETIME NOT NULL,
			due_date DATETIME NOT NULL,
			sent_at DATETIME,
			paid_at DATETIME,
			cancelled_at DATETIME,
			notes TEXT
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE UNIQUE INDEX idx_invoices_contract_period
		ON invoices (contract_id, period) WHERE status != 'CANCELLED'
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			invoice_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			reference TEXT,
			paid_at DATETIME NOT NULL,
			confirmed_at DATETIME,
			notes TEXT
		)
	`).Error
	require.NoError(t, err)

	return db
}

func mustParsePeriod(t *testing.T, s string) valueobject.Period {
	period, err := valueobject.ParsePeriod(s)
	require.NoError(t, err)
	return period
}

func createPersistedInvoice(t *testing.T, repo *GormInvoiceRepository, contractID uuid.UUID, periodStr string, dueDate time.Time) *billing.Invoice {
	invoice, err := billing.NewInvoice(
		contractID,
		mustParsePeriod(t, periodStr),
		valueobject.NewMoneyVNDFromInt(3_500_000),
		valueobject.NewMoneyVNDFromInt(175_000),
		valueobject.NewMoneyVNDFromInt(75_000),
		valueobject.ZeroVND(),
		dueDate.AddDate(0, 0, -7),
		dueDate,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), invoice))
	return invoice
}

func TestGormInvoiceRepository_SaveAndFindByContractAndPeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	contractID := uuid.New()
	invoice := createPersistedInvoice(t, repo, contractID, "2026-07", time.Now().AddDate(0, 0, 7))

	found, err := repo.FindByContractAndPeriod(ctx, contractID, mustParsePeriod(t, "2026-07"))
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)
	assert.Equal(t, billing.InvoiceStatusUnpaid, found.Status)
	assert.True(t, invoice.Total.Equals(found.Total))

	missing, err := repo.FindByContractAndPeriod(ctx, contractID, mustParsePeriod(t, "2026-08"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormInvoiceRepository_UniquePerContractPeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)

	contractID := uuid.New()
	createPersistedInvoice(t, repo, contractID, "2026-07", time.Now().AddDate(0, 0, 7))

	duplicate, err := billing.NewInvoice(
		contractID,
		mustParsePeriod(t, "2026-07"),
		valueobject.NewMoneyVNDFromInt(3_500_000),
		valueobject.ZeroVND(),
		valueobject.ZeroVND(),
		valueobject.ZeroVND(),
		time.Now(),
		time.Now().AddDate(0, 0, 7),
	)
	require.NoError(t, err)

	err = repo.Save(context.Background(), duplicate)
	assert.Error(t, err)
}

func TestGormInvoiceRepository_CancelledInvoiceFreesThePeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	contractID := uuid.New()
	cancelled := createPersistedInvoice(t, repo, contractID, "2026-07", time.Now().AddDate(0, 0, 7))
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.Save(ctx, cancelled))

	// A cancelled invoice no longer occupies the period
	found, err := repo.FindByContractAndPeriod(ctx, contractID, mustParsePeriod(t, "2026-07"))
	require.NoError(t, err)
	assert.Nil(t, found)

	// and the unique index lets the period be billed again
	replacement := createPersistedInvoice(t, repo, contractID, "2026-07", time.Now().AddDate(0, 0, 7))

	found, err = repo.FindByContractAndPeriod(ctx, contractID, mustParsePeriod(t, "2026-07"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, replacement.ID, found.ID)
}

func TestGormInvoiceRepository_FindOutstandingPastDue(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	now := time.Now()

	pastDue := createPersistedInvoice(t, repo, uuid.New(), "2026-05", now.AddDate(0, 0, -10))
	createPersistedInvoice(t, repo, uuid.New(), "2026-07", now.AddDate(0, 0, 10))

	paid := createPersistedInvoice(t, repo, uuid.New(), "2026-06", now.AddDate(0, 0, -5))
	require.NoError(t, paid.MarkPaid())
	require.NoError(t, repo.Save(ctx, paid))

	invoices, err := repo.FindOutstandingPastDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, pastDue.ID, invoices[0].ID)
}

func TestGormInvoiceRepository_FindPaidByPeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	now := time.Now()

	first := createPersistedInvoice(t, repo, uuid.New(), "2026-07", now.AddDate(0, 0, 7))
	require.NoError(t, first.MarkPaid())
	require.NoError(t, repo.Save(ctx, first))

	// Unpaid invoice in the same period and a paid one in another period
	createPersistedInvoice(t, repo, uuid.New(), "2026-07", now.AddDate(0, 0, 7))
	other := createPersistedInvoice(t, repo, uuid.New(), "2026-06", now.AddDate(0, 0, 7))
	require.NoError(t, other.MarkPaid())
	require.NoError(t, repo.Save(ctx, other))

	invoices, err := repo.FindPaidByPeriod(ctx, mustParsePeriod(t, "2026-07"))
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, first.ID, invoices[0].ID)
}

func TestGormInvoiceRepository_FindOutstanding(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	now := time.Now()

	unpaid := createPersistedInvoice(t, repo, uuid.New(), "2026-07", now.AddDate(0, 0, 7))
	overdue := createPersistedInvoice(t, repo, uuid.New(), "2026-05", now.AddDate(0, 0, -10))
	require.NoError(t, overdue.MarkOverdue())
	require.NoError(t, repo.Save(ctx, overdue))

	cancelled := createPersistedInvoice(t, repo, uuid.New(), "2026-06", now.AddDate(0, 0, 7))
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.Save(ctx, cancelled))

	invoices, err := repo.FindOutstanding(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	ids := []uuid.UUID{invoices[0].ID, invoices[1].ID}
	assert.Contains(t, ids, unpaid.ID)
	assert.Contains(t, ids, overdue.ID)
}

func TestGormPaymentRepository_FindByInvoice(t *testing.T) {
	db := setupBillingTestDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	paymentRepo := NewGormPaymentRepository(db)
	ctx := context.Background()
	now := time.Now()

	invoice := createPersistedInvoice(t, invoiceRepo, uuid.New(), "2026-07", now.AddDate(0, 0, 7))

	first, err := billing.NewPayment(invoice.ID, valueobject.NewMoneyVNDFromInt(2_000_000), billing.PaymentMethodBank, "FT-001", now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, paymentRepo.Save(ctx, first))

	second, err := billing.NewPayment(invoice.ID, valueobject.NewMoneyVNDFromInt(1_750_000), billing.PaymentMethodCash, "", now)
	require.NoError(t, err)
	require.NoError(t, second.Confirm())
	require.NoError(t, paymentRepo.Save(ctx, second))

	// Payment against a different invoice is not returned
	other, err := billing.NewPayment(uuid.New(), valueobject.NewMoneyVNDFromInt(500_000), billing.PaymentMethodOnline, "TX-9", now)
	require.NoError(t, err)
	require.NoError(t, paymentRepo.Save(ctx, other))

	payments, err := paymentRepo.FindByInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, first.ID, payments[0].ID)
	assert.Equal(t, second.ID, payments[1].ID)
	assert.Equal(t, billing.PaymentStatusConfirmed, payments[1].Status)
}
