package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (lowercased)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds all users with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByRole finds users with the given role
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail checks if a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
