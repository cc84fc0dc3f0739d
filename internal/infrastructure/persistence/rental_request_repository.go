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

// GormRentalRequestRepository implements rental.RentalRequestRepository using GORM
type GormRentalRequestRepository struct {
	db *gorm.DB
}

// NewGormRentalRequestRepository creates a new GormRentalRequestRepository
func NewGormRentalRequestRepository(db *gorm.DB) *GormRentalRequestRepository {
	return &GormRentalRequestRepository{db: db}
}

// FindByID finds a rental request by ID
func (r *GormRentalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalRequest, error) {
	var model models.RentalRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all rental requests matching the filter
func (r *GormRentalRequestRepository) FindAll(ctx context.Context, filter rental.RentalRequestFilter) ([]*rental.RentalRequest, error) {
	var requestModels []models.RentalRequestModel
	query := r.db.WithContext(ctx).Model(&models.RentalRequestModel{})

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
	orderBy := ValidateSortField(filter.OrderBy, RequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*rental.RentalRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = requestModels[i].ToDomain()
	}
	return requests, nil
}

// FindPendingByRoomAndTenant finds a pending request by the same tenant for
// the same room, if one exists
func (r *GormRentalRequestRepository) FindPendingByRoomAndTenant(ctx context.Context, roomID, tenantID uuid.UUID) (*rental.RentalRequest, error) {
	var model models.RentalRequestModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND tenant_id = ? AND status = ?", roomID, tenantID, rental.RequestStatusPending).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a rental request
func (r *GormRentalRequestRepository) Save(ctx context.Context, request *rental.RentalRequest) error {
	var model models.RentalRequestModel
	model.FromDomain(request)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a rental request
func (r *GormRentalRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RentalRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ rental.RentalRequestRepository = (*GormRentalRequestRepository)(nil)
