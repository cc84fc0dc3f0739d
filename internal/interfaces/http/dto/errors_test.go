package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", "NOT_FOUND", http.StatusNotFound},
		{"duplicate invoice", "DUPLICATE_INVOICE", http.StatusConflict},
		{"duplicate reading", "DUPLICATE_READING", http.StatusConflict},
		{"room not available", "ROOM_NOT_AVAILABLE", http.StatusUnprocessableEntity},
		{"non monotonic reading", "NON_MONOTONIC_READING", http.StatusUnprocessableEntity},
		{"bad period format", "BAD_PERIOD_FORMAT", http.StatusBadRequest},
		{"invalid date range", "INVALID_DATE_RANGE", http.StatusBadRequest},
		{"invalid credentials", "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"forbidden", "FORBIDDEN", http.StatusForbidden},
		{"concurrency conflict", "CONCURRENCY_CONFLICT", http.StatusConflict},
		{"invoice cancelled", "INVOICE_CANCELLED", http.StatusUnprocessableEntity},
		{"unknown code falls back to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Room not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Room not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
