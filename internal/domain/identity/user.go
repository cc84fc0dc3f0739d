package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/rentledger/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the capability tag of a user
type Role string

const (
	RoleOwner  Role = "OWNER"  // Landlord capability: manages rooms, contracts, billing
	RoleTenant Role = "TENANT" // Renter capability: sends rental requests, views own data
	RoleTech   Role = "TECH"   // Maintenance staff, read-only on rooms
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleTenant, RoleTech:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an authenticated actor.
// Tenant-specific profile fields live directly on the user; there is no
// separate tenant profile entity.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	// Tenant profile fields, meaningful only when Role == RoleTenant
	IDNumber         string // National ID / citizen number
	EmergencyContact string
	LastLoginAt      *time.Time
}

// NewUser creates a new active user with the given role
func NewUser(email, password, fullName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be OWNER, TENANT or TECH")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          strings.TrimSpace(fullName),
		PasswordHash:      passwordHash,
		Role:              role,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// CompleteTenantProfile fills in the tenant profile fields.
// Called synchronously right after registration of a TENANT user.
func (u *User) CompleteTenantProfile(phone, idNumber, emergencyContact string) error {
	if u.Role != RoleTenant {
		return shared.NewDomainError("NOT_A_TENANT", "Only tenant users carry a tenant profile")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	u.Phone = strings.TrimSpace(phone)
	u.IDNumber = strings.TrimSpace(idNumber)
	u.EmergencyContact = strings.TrimSpace(emergencyContact)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetFullName sets the user's full name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 150 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 150 characters")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetPhone sets the user's phone number
func (u *User) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword verifies the old password and sets a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// VerifyPassword checks if the given password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("INVALID_STATE", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Activate re-activates a deactivated user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}

	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// IsActive returns true if the user can authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsOwner returns true if the user carries the OWNER capability
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsTenant returns true if the user carries the TENANT capability
func (u *User) IsTenant() bool {
	return u.Role == RoleTenant
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
