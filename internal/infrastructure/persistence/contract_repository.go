package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
)

// GormContractRepository implements rental.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter rental.ContractFilter) ([]*rental.Contract, error) {
	var contractModels []models.ContractModel
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})

	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ContractSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]*rental.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = contractModels[i].ToDomain()
	}
	return contracts, nil
}

// FindActiveByRoom finds the active contract for a room, if one exists.
// The partial unique index on contracts(room_id) WHERE status = 'ACTIVE'
// guarantees there is at most one.
func (r *GormContractRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*rental.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, rental.ContractStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active contracts
func (r *GormContractRepository) FindActive(ctx context.Context) ([]*rental.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", rental.ContractStatusActive).
		Order("start_date ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}

	contracts := make([]*rental.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = contractModels[i].ToDomain()
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	var model models.ContractModel
	model.FromDomain(contract)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a contract
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ rental.ContractRepository = (*GormContractRepository)(nil)
