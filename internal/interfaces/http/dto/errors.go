package dto

import (
	"net/http"

	"github.com/fieldcollect/backend/internal/domain/shared"
)

// Transport-only error codes. Domain codes come from the shared package.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:     http.StatusBadRequest,
	shared.CodeWeakCredential: http.StatusBadRequest,
	shared.CodeConflict:       http.StatusConflict,
	shared.CodeAuth:           http.StatusUnauthorized,
	shared.CodeNotFound:       http.StatusNotFound,
	shared.CodeForbidden:      http.StatusForbidden,
	shared.CodeInternal:       http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized: http.StatusUnauthorized,
}

// CredentialStatusOverrides answers input problems on the signup, login and
// form routes with 401, which is what existing clients expect.
var CredentialStatusOverrides = map[string]int{
	shared.CodeValidation:     http.StatusUnauthorized,
	shared.CodeConflict:       http.StatusUnauthorized,
	shared.CodeWeakCredential: http.StatusUnauthorized,
	ErrCodeBadRequest:         http.StatusUnauthorized,
	ErrCodeInvalidJSON:        http.StatusUnauthorized,
}

// StatusMapper resolves the HTTP status for an error code
type StatusMapper func(code string) int

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithOverrides returns a StatusMapper that consults overrides first
func WithOverrides(overrides map[string]int) StatusMapper {
	return func(code string) int {
		if status, ok := overrides[code]; ok {
			return status
		}
		return GetHTTPStatus(code)
	}
}
