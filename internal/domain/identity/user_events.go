package identity

import (
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// UserCreatedEvent is raised when a new user is registered
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     Role      `json:"role"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
	}
}
