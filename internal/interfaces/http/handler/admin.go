package handler

import (
	"net/http"

	"github.com/fieldcollect/backend/internal/application/access"
	groupapp "github.com/fieldcollect/backend/internal/application/group"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UsersResponse lists users
type UsersResponse struct {
	dto.Response
	Users []dto.UserResponse `json:"users"`
}

// GroupsResponse lists groups
type GroupsResponse struct {
	dto.Response
	Groups []dto.GroupResponse `json:"groups"`
}

// GroupEnvelope carries a single group. Group is null when a user has none.
type GroupEnvelope struct {
	dto.Response
	Group *dto.GroupResponse `json:"group"`
}

// CollectedResponse lists every submission with its submitter
type CollectedResponse struct {
	dto.Response
	Data []dto.SubmissionResponse `json:"data"`
}

// AdminHandler serves the admin area. Routes are expected behind
// RequireRole(admin); the access service checks the role again.
type AdminHandler struct {
	BaseHandler
	accessService *access.AccessService
	groupService  *groupapp.GroupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accessService *access.AccessService, groupService *groupapp.GroupService) *AdminHandler {
	return &AdminHandler{
		accessService: accessService,
		groupService:  groupService,
	}
}

// Home handles GET /admin
func (h *AdminHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK("Hi Admin"))
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	users, err := h.accessService.ListUsers(c.Request.Context(), viewer)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UsersResponse{
		Response: dto.Response{Success: true},
		Users:    toUserResponses(users),
	})
}

// ListGroups handles GET /admin/groups
func (h *AdminHandler) ListGroups(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	groups, err := h.accessService.ListGroups(c.Request.Context(), viewer)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, GroupsResponse{
		Response: dto.Response{Success: true},
		Groups:   toGroupResponses(groups),
	})
}

// CreateGroup handles POST /admin/groups
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	g, err := h.groupService.CreateGroup(c.Request.Context(), groupapp.CreateGroupInput{
		Name:       req.Name,
		MaxMembers: req.Capacity(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := toGroupResponse(*g)
	c.JSON(http.StatusOK, GroupEnvelope{
		Response: dto.OK("Group created"),
		Group:    &resp,
	})
}

// AddMembers handles POST /admin/groups/:groupId/members
func (h *AdminHandler) AddMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		h.BadRequest(c, "Invalid group id")
		return
	}

	var req AddMembersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	g, err := h.groupService.AddMembers(c.Request.Context(), groupID, req.IDs())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := toGroupResponse(*g)
	c.JSON(http.StatusOK, GroupEnvelope{
		Response: dto.OK("Members added"),
		Group:    &resp,
	})
}

// Collected handles GET /admin/collected
func (h *AdminHandler) Collected(c *gin.Context) {
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	subs, err := h.accessService.ListSubmissions(c.Request.Context(), viewer)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CollectedResponse{
		Response: dto.Response{Success: true},
		Data:     toSubmissionResponses(subs),
	})
}

func (h *AdminHandler) viewer(c *gin.Context) (access.Viewer, bool) {
	return resolveViewer(&h.BaseHandler, h.accessService, c)
}

// resolveViewer builds the viewer of the request from its session and the
// stored role, answering the error itself
func resolveViewer(h *BaseHandler, accessService *access.AccessService, c *gin.Context) (access.Viewer, bool) {
	userID, ok := sessionUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return access.Viewer{}, false
	}
	viewer, err := accessService.ViewerFor(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return access.Viewer{}, false
	}
	return viewer, true
}
