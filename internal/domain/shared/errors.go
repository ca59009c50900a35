package shared

import "errors"

// Error codes shared by every bounded context. The HTTP layer maps each code
// to a status.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeAuth           = "AUTH_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeWeakCredential = "WEAK_CREDENTIAL"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewAuthError reports a failed authentication or an invalid session.
func NewAuthError(message string) *DomainError {
	return NewDomainError(CodeAuth, message)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewWeakCredentialError reports a password that fails the strength policy.
func NewWeakCredentialError(message string) *DomainError {
	return NewDomainError(CodeWeakCredential, message)
}

// NewForbiddenError reports an authenticated caller lacking the required role.
func NewForbiddenError(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// NewInternalError wraps an infrastructure failure. The cause is kept for
// logging and never shown to clients.
func NewInternalError(cause error) *DomainError {
	return &DomainError{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		cause:   cause,
	}
}

// CodeOf returns the domain error code carried by err, or CodeInternal when
// err is not a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// Common domain errors
var (
	ErrNotFound      = NewNotFoundError("Resource not found")
	ErrAlreadyExists = NewConflictError("Resource already exists")
	ErrUnauthorized  = NewAuthError("Not authorized to perform this action")
	ErrForbidden     = NewForbiddenError("Access to this resource is forbidden")
)
