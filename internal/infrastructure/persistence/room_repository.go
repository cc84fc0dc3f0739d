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

// GormRoomRepository implements rental.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID finds a room by ID
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all rooms matching the filter
func (r *GormRoomRepository) FindAll(ctx context.Context, filter rental.RoomFilter) ([]*rental.Room, error) {
	var roomModels []models.RoomModel
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.RoomModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, RoomSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&roomModels).Error; err != nil {
		return nil, err
	}

	rooms := make([]*rental.Room, len(roomModels))
	for i := range roomModels {
		rooms[i] = roomModels[i].ToDomain()
	}
	return rooms, nil
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *rental.Room) error {
	var model models.RoomModel
	model.FromDomain(room)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a room
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rooms matching the filter
func (r *GormRoomRepository) Count(ctx context.Context, filter rental.RoomFilter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.RoomModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRoomRepository) applyConditions(query *gorm.DB, filter rental.RoomFilter) *gorm.DB {
	if filter.BuildingID != nil {
		query = query.Where("building_id = ?", *filter.BuildingID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}

var _ rental.RoomRepository = (*GormRoomRepository)(nil)
