package handler

import (
	"net/http"

	"github.com/fieldcollect/backend/internal/application/access"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionsResponse lists a user's own submissions
type SubmissionsResponse struct {
	dto.Response
	Submissions []dto.SubmissionResponse `json:"submissions"`
}

// UserHandler serves a user's own group and submissions
type UserHandler struct {
	BaseHandler
	accessService *access.AccessService
}

// NewUserHandler creates a new user handler
func NewUserHandler(accessService *access.AccessService) *UserHandler {
	return &UserHandler{accessService: accessService}
}

// GetGroup handles GET /user/group/:userId
func (h *UserHandler) GetGroup(c *gin.Context) {
	userID, viewer, ok := h.target(c)
	if !ok {
		return
	}

	g, err := h.accessService.GetOwnGroup(c.Request.Context(), viewer, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if g == nil {
		c.JSON(http.StatusOK, GroupEnvelope{Response: dto.OK("No group assigned")})
		return
	}

	resp := toGroupResponse(*g)
	c.JSON(http.StatusOK, GroupEnvelope{
		Response: dto.Response{Success: true},
		Group:    &resp,
	})
}

// ListSubmissions handles GET /user/submissions/:userId
func (h *UserHandler) ListSubmissions(c *gin.Context) {
	userID, viewer, ok := h.target(c)
	if !ok {
		return
	}

	subs, err := h.accessService.ListOwnSubmissions(c.Request.Context(), viewer, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmissionsResponse{
		Response:    dto.Response{Success: true},
		Submissions: toSubmissionResponses(subs),
	})
}

// target parses the :userId path parameter and resolves the viewer
func (h *UserHandler) target(c *gin.Context) (uuid.UUID, access.Viewer, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user id")
		return uuid.Nil, access.Viewer{}, false
	}
	viewer, ok := resolveViewer(&h.BaseHandler, h.accessService, c)
	if !ok {
		return uuid.Nil, access.Viewer{}, false
	}
	return userID, viewer, true
}
