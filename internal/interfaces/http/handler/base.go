package handler

import (
	"errors"
	"net/http"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/fieldcollect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const internalErrorMessage = "An unexpected error occurred"

// BaseHandler provides common handler utilities. The status mapper decides
// which HTTP status an error code gets for the handler's routes.
type BaseHandler struct {
	statusFor dto.StatusMapper
}

func (h *BaseHandler) status(code string) int {
	if h.statusFor != nil {
		return h.statusFor(code)
	}
	return dto.GetHTTPStatus(code)
}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// sessionUserID returns the verified user of the request
func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	session := middleware.GetSession(c)
	if session == nil {
		return uuid.Nil, false
	}
	return session.UserID, true
}

// Error sends an error response for code using the handler's status mapping
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(h.status(code), dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUnauthorized, message)
}

// bindJSON binds the request body and answers the failure itself.
// It returns false when the handler must stop.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(h.status(dto.ErrCodeBadRequest),
			middleware.FormatValidationErrors(err, dto.ErrCodeBadRequest, getRequestID(c)))
		return false
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.Error(c, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
		return false
	}

	h.Error(c, dto.ErrCodeInvalidJSON, "Invalid request body")
	return false
}

// HandleError converts domain errors to HTTP responses. Anything that is not
// a domain error, and internal errors themselves, get a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != shared.CodeInternal {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	h.Error(c, shared.CodeInternal, internalErrorMessage)
}
