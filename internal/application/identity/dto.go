package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentledger/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     identity.Role
	// Tenant profile fields, required when Role == RoleTenant
	Phone            string
	IDNumber         string
	EmergencyContact string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// UserInfo contains basic user information returned to callers
type UserInfo struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	Phone       string
	Role        identity.Role
	Status      identity.UserStatus
	LastLoginAt *time.Time
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID      uuid.UUID
	AccessToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates.
// Nil pointer fields are left unchanged.
type UpdateProfileInput struct {
	FullName         *string
	Phone            *string
	EmergencyContact *string
}

func newUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
	}
}
