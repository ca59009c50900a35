package handler

import (
	"net/http"

	submissionapp "github.com/fieldcollect/backend/internal/application/submission"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SubmitResponse is returned after a form was stored
type SubmitResponse struct {
	dto.Response
	ID string `json:"id"`
}

// SubmissionHandler handles the collection form
type SubmissionHandler struct {
	BaseHandler
	submissionService *submissionapp.SubmissionService
}

// NewSubmissionHandler creates a new submission handler. Like signup and
// login, input errors are answered with 401.
func NewSubmissionHandler(submissionService *submissionapp.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       BaseHandler{statusFor: dto.WithOverrides(dto.CredentialStatusOverrides)},
		submissionService: submissionService,
	}
}

// FillForm handles POST /auth/fill-form
func (h *SubmissionHandler) FillForm(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req FillFormRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.submissionService.Submit(c.Request.Context(), userID, submissionapp.SubmitInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		Response: dto.OK("Successfully registered"),
		ID:       id.String(),
	})
}
