package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
)

// GormMeterReadingRepository implements rental.MeterReadingRepository using GORM
type GormMeterReadingRepository struct {
	db *gorm.DB
}

// NewGormMeterReadingRepository creates a new GormMeterReadingRepository
func NewGormMeterReadingRepository(db *gorm.DB) *GormMeterReadingRepository {
	return &GormMeterReadingRepository{db: db}
}

// FindByID finds a meter reading by ID
func (r *GormMeterReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract finds all readings for a contract, newest period first by
// default
func (r *GormMeterReadingRepository) FindByContract(ctx context.Context, contractID uuid.UUID, filter shared.Filter) ([]*rental.MeterReading, error) {
	var readingModels []models.MeterReadingModel
	query := r.db.WithContext(ctx).Model(&models.MeterReadingModel{}).
		Where("contract_id = ?", contractID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("period " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&readingModels).Error; err != nil {
		return nil, err
	}

	readings := make([]*rental.MeterReading, len(readingModels))
	for i := range readingModels {
		readings[i] = readingModels[i].ToDomain()
	}
	return readings, nil
}

// FindByContractAndPeriod finds the reading for a contract period, if one
// exists
func (r *GormMeterReadingRepository) FindByContractAndPeriod(ctx context.Context, contractID uuid.UUID, period valueobject.Period) (*rental.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND period = ?", contractID, period).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestByContract finds the most recent reading for a contract.
// Periods sort lexicographically because they are stored as "YYYY-MM".
func (r *GormMeterReadingRepository) FindLatestByContract(ctx context.Context, contractID uuid.UUID) (*rental.MeterReading, error) {
	var model models.MeterReadingModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("period DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a meter reading
func (r *GormMeterReadingRepository) Save(ctx context.Context, reading *rental.MeterReading) error {
	var model models.MeterReadingModel
	model.FromDomain(reading)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a meter reading
func (r *GormMeterReadingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MeterReadingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ rental.MeterReadingRepository = (*GormMeterReadingRepository)(nil)
