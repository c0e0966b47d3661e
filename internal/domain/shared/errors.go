package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ConfirmationError signals that an operation needs an explicit user
// confirmation before it can proceed. Gate identifies which confirmation
// is missing so the caller can re-submit with the matching flag set.
type ConfirmationError struct {
	Gate    string `json:"gate"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ConfirmationError) Error() string {
	return e.Message
}

// NewConfirmationError creates a new confirmation error
func NewConfirmationError(gate, message string) *ConfirmationError {
	return &ConfirmationError{
		Gate:    gate,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
