package shared

import "fmt"

// DomainError is a business-rule violation carrying a stable
// machine-readable code. The HTTP layer maps codes onto status codes and
// the message is safe to return to API clients unchanged.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches domain errors by code, so sentinel comparisons hold even for
// errors constructed at the call site.
func (e *DomainError) Is(target error) bool {
	other, ok := target.(*DomainError)
	return ok && other.Code == e.Code
}

// NewDomainError creates a domain error with the given code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for violations raised across more than one bounded context.
// Context-specific codes are built inline with NewDomainError.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
