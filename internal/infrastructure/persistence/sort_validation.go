package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns "DESC" when the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns defaultField when the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to all aggregates
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"full_name":     true,
	"status":        true,
	"last_login_at": true,
}

// RoomSortFields contains allowed sort fields for rooms
var RoomSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"base_price": true,
	"status":     true,
}

// RequestSortFields contains allowed sort fields for rental requests
var RequestSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"viewing_time": true,
	"status":       true,
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"start_date": true,
	"end_date":   true,
	"status":     true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"period":     true,
	"issued_at":  true,
	"due_date":   true,
	"status":     true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"paid_at":    true,
	"status":     true,
}
