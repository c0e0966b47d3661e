package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/commtrack/backend/internal/application/identity"
	"github.com/commtrack/backend/internal/interfaces/http/middleware"
)

// TeamHandler handles team administration HTTP requests
type TeamHandler struct {
	BaseHandler
	teamService *appidentity.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *appidentity.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// RegisterRoutes registers the team routes. Reads are open to managers and
// admins; mutations are admin-only.
func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	teams := rg.Group("/teams")
	teams.GET("", middleware.RequireRole("manager", "admin"), h.List)
	teams.GET("/:id", middleware.RequireRole("manager", "admin"), h.Get)

	admin := teams.Group("", middleware.RequireRole("admin"))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Rename)
	admin.PUT("/:id/manager", h.SetManager)
}

// List returns all teams
func (h *TeamHandler) List(c *gin.Context) {
	infos, err := h.teamService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TeamResponse, len(infos))
	for i, info := range infos {
		out[i] = toTeamResponse(info)
	}
	h.Success(c, out)
}

// Get returns one team with its members
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	info, err := h.teamService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTeamResponse(*info))
}

// Create creates a new team
func (h *TeamHandler) Create(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	managerID, ok := h.optionalUUID(c, req.ManagerID, "Invalid manager ID")
	if !ok {
		return
	}

	info, err := h.teamService.Create(c.Request.Context(), req.Name, managerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTeamResponse(*info))
}

// Rename changes a team's name
func (h *TeamHandler) Rename(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req RenameTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.teamService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTeamResponse(*info))
}

// SetManager assigns or clears a team's manager
func (h *TeamHandler) SetManager(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req SetManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	managerID, ok := h.optionalUUID(c, req.ManagerID, "Invalid manager ID")
	if !ok {
		return
	}

	info, err := h.teamService.SetManager(c.Request.Context(), id, managerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTeamResponse(*info))
}

// optionalUUID parses an optional string UUID, responding with a 400 on
// malformed input
func (h *BaseHandler) optionalUUID(c *gin.Context, raw *string, message string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	parsed, err := uuid.Parse(*raw)
	if err != nil {
		h.BadRequest(c, message)
		return nil, false
	}
	return &parsed, true
}
