package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("ROOM_NOT_AVAILABLE", "Room is already rented")
	assert.Equal(t, "ROOM_NOT_AVAILABLE: Room is already rented", err.Error())
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewDomainError("NOT_FOUND", "Contract not found"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrForbidden))
}
