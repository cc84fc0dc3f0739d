package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})

	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "issued_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	return toDomainInvoices(invoiceModels), nil
}

// FindByContractAndPeriod finds the live invoice for a contract period, if
// one exists. Cancelled invoices are skipped so the period can be re-billed.
func (r *GormInvoiceRepository) FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND period = ? AND status != ?", contractID, period, billing.InvoiceStatusCancelled).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOutstandingPastDue finds UNPAID and OVERDUE invoices whose due date is
// before asOf
func (r *GormInvoiceRepository) FindOutstandingPastDue(ctx context.Context, asOf time.Time) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?",
			[]billing.InvoiceStatus{billing.InvoiceStatusUnpaid, billing.InvoiceStatusOverdue}, asOf).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindPaidByPeriod finds all PAID invoices for a period
func (r *GormInvoiceRepository) FindPaidByPeriod(ctx context.Context, period valueobject.Period) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("period = ? AND status = ?", period, billing.InvoiceStatusPaid).
		Order("issued_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindOutstanding finds all UNPAID and OVERDUE invoices
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?",
			[]billing.InvoiceStatus{billing.InvoiceStatusUnpaid, billing.InvoiceStatusOverdue}).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []*billing.Invoice {
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
