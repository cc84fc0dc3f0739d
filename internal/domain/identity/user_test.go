package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/backend/internal/domain/shared"
)

func createTestTenant(t *testing.T) *User {
	user, err := NewUser("tenant@example.com", "s3cret-pass", "Nguyen Van A", RoleTenant)
	require.NoError(t, err)
	return user
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role    Role
		isValid bool
	}{
		{RoleOwner, true},
		{RoleTenant, true},
		{RoleTech, true},
		{Role("ADMIN"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.role.IsValid())
		})
	}
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Owner@Example.COM  ", "s3cret-pass", "  Chu Nha  ", RoleOwner)
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", user.Email)
	assert.Equal(t, "Chu Nha", user.FullName)
	assert.True(t, user.IsOwner())
	assert.True(t, user.IsActive())
	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong"))
	assert.Len(t, user.GetDomainEvents(), 1)
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("not-an-email", "s3cret-pass", "X", RoleTenant)
	require.Error(t, err)

	_, err = NewUser("a@b.com", "short", "X", RoleTenant)
	require.Error(t, err)

	_, err = NewUser("a@b.com", "s3cret-pass", "X", Role("ADMIN"))
	assertDomainErrorCode(t, err, "INVALID_ROLE")
}

func TestUser_CompleteTenantProfile(t *testing.T) {
	user := createTestTenant(t)

	require.NoError(t, user.CompleteTenantProfile("0901234567", "012345678901", "Nguyen Van B 0907654321"))
	assert.Equal(t, "0901234567", user.Phone)
	assert.Equal(t, "012345678901", user.IDNumber)
}

func TestUser_CompleteTenantProfile_OwnerRejected(t *testing.T) {
	user, err := NewUser("owner@example.com", "s3cret-pass", "Chu Nha", RoleOwner)
	require.NoError(t, err)

	err = user.CompleteTenantProfile("0901234567", "", "")
	assertDomainErrorCode(t, err, "NOT_A_TENANT")
}

func TestUser_ChangePassword(t *testing.T) {
	user := createTestTenant(t)

	err := user.ChangePassword("wrong-pass", "new-password1")
	assertDomainErrorCode(t, err, "INVALID_PASSWORD")

	require.NoError(t, user.ChangePassword("s3cret-pass", "new-password1"))
	assert.True(t, user.VerifyPassword("new-password1"))
	assert.False(t, user.VerifyPassword("s3cret-pass"))
}

func TestUser_DeactivateActivate(t *testing.T) {
	user := createTestTenant(t)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())

	err := user.Deactivate()
	assertDomainErrorCode(t, err, "INVALID_STATE")

	require.NoError(t, user.Activate())
	assert.True(t, user.IsActive())
}

func TestUser_RecordLoginSuccess(t *testing.T) {
	user := createTestTenant(t)
	require.Nil(t, user.LastLoginAt)

	user.RecordLoginSuccess()
	require.NotNil(t, user.LastLoginAt)
}
