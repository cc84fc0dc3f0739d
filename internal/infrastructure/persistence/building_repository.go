package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/persistence/models"
)

// GormBuildingRepository implements rental.BuildingRepository using GORM
type GormBuildingRepository struct {
	db *gorm.DB
}

// NewGormBuildingRepository creates a new GormBuildingRepository
func NewGormBuildingRepository(db *gorm.DB) *GormBuildingRepository {
	return &GormBuildingRepository{db: db}
}

// FindByID finds a building by ID
func (r *GormBuildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Building, error) {
	var model models.BuildingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all buildings matching the filter
func (r *GormBuildingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*rental.Building, error) {
	var buildingModels []models.BuildingModel
	query := r.db.WithContext(ctx).Model(&models.BuildingModel{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&buildingModels).Error; err != nil {
		return nil, err
	}

	buildings := make([]*rental.Building, len(buildingModels))
	for i := range buildingModels {
		buildings[i] = buildingModels[i].ToDomain()
	}
	return buildings, nil
}

// Save creates or updates a building
func (r *GormBuildingRepository) Save(ctx context.Context, building *rental.Building) error {
	var model models.BuildingModel
	model.FromDomain(building)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a building
func (r *GormBuildingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BuildingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of buildings
func (r *GormBuildingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BuildingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ rental.BuildingRepository = (*GormBuildingRepository)(nil)
