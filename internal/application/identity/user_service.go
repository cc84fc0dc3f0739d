package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentledger/backend/internal/domain/identity"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
)

// UserService handles user profile and administration operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "GetByID")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := newUserInfo(user)
	return &info, nil
}

// ListResult contains a page of users with the total count
type ListResult struct {
	Users []UserInfo
	Total int64
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*ListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "List")
	defer span.End()

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ListResult{
		Users: make([]UserInfo, 0, len(users)),
		Total: total,
	}
	for i := range users {
		result.Users = append(result.Users, newUserInfo(&users[i]))
	}
	return result, nil
}

// ListTenants retrieves users with the tenant role
func (s *UserService) ListTenants(ctx context.Context, filter shared.Filter) (*ListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "ListTenants")
	defer span.End()

	users, err := s.userRepo.FindByRole(ctx, identity.RoleTenant, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ListResult{
		Users: make([]UserInfo, 0, len(users)),
		Total: int64(len(users)),
	}
	for i := range users {
		result.Users = append(result.Users, newUserInfo(&users[i]))
	}
	return result, nil
}

// UpdateProfile updates a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "UpdateProfile")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if input.FullName != nil {
		if err := user.SetFullName(*input.FullName); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.EmergencyContact != nil {
		user.EmergencyContact = *input.EmergencyContact
		user.IncrementVersion()
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to update user profile", zap.Error(err))
		return nil, err
	}

	info := newUserInfo(user)
	return &info, nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "Deactivate")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))

	info := newUserInfo(user)
	return &info, nil
}

// Activate re-enables a deactivated user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "UserService", "Activate")
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User activated", zap.String("user_id", id.String()))

	info := newUserInfo(user)
	return &info, nil
}
