package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Business rule violations surface as 422, conflicts on unique resources
// as 409, malformed input as 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Resources
	ErrCodeNotFound:  http.StatusNotFound,
	ErrCodeConflict:  http.StatusConflict,
	"ALREADY_EXISTS": http.StatusConflict,
	"EMAIL_TAKEN":    http.StatusConflict,
	"DUPLICATE_PENDING_REQUEST": http.StatusConflict,
	"DUPLICATE_INVOICE":         http.StatusConflict,
	"DUPLICATE_READING":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,

	// Malformed input
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_DATE_RANGE":     http.StatusBadRequest,
	"BAD_PERIOD_FORMAT":      http.StatusBadRequest,
	"INVALID_PAYMENT_STATUS": http.StatusBadRequest,

	// Business rules
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"ROOM_NOT_AVAILABLE":         http.StatusUnprocessableEntity,
	"REQUEST_NOT_ELIGIBLE":       http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":         http.StatusUnprocessableEntity,
	"VIEWING_TIME_TOO_SOON":      http.StatusUnprocessableEntity,
	"NON_MONOTONIC_READING":      http.StatusUnprocessableEntity,
	"CONTRACT_NOT_ACTIVE":        http.StatusUnprocessableEntity,
	"INVALID_INVOICE_TRANSITION": http.StatusUnprocessableEntity,
	"INVOICE_CANCELLED":          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
