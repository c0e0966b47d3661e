package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appidentity "github.com/commtrack/backend/internal/application/identity"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/interfaces/http/dto"
	"github.com/commtrack/backend/internal/interfaces/http/middleware"
)

// ProfileHandler handles profile administration HTTP requests
type ProfileHandler struct {
	BaseHandler
	profileService *appidentity.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *appidentity.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile routes. Listing is open to managers
// and admins for owner filtering; everything else is admin-only.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	profiles.GET("", middleware.RequireRole("manager", "admin"), h.List)

	admin := profiles.Group("", middleware.RequireRole("admin"))
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.PUT("/:id/role", h.AssignRole)
	admin.PUT("/:id/team", h.AssignTeam)
	admin.POST("/:id/reset-password", h.ResetPassword)
}

// List returns all profiles
func (h *ProfileHandler) List(c *gin.Context) {
	infos, err := h.profileService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponses(infos))
}

// Get returns one profile
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	info, err := h.profileService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(*info))
}

// Create creates a new profile
func (h *ProfileHandler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appidentity.CreateProfileInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        identity.Role(req.Role),
	}
	if req.DefaultCommissionRate != nil {
		input.DefaultCommissionRate = decimal.NewFromFloat(*req.DefaultCommissionRate)
	}
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			h.BadRequest(c, "Invalid team ID")
			return
		}
		input.TeamID = &teamID
	}

	info, err := h.profileService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProfileResponse(*info))
}

// Update applies profile edits
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appidentity.UpdateProfileInput{
		DisplayName:           req.DisplayName,
		DefaultCommissionRate: toDecimalPtr(req.DefaultCommissionRate),
	}

	info, err := h.profileService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(*info))
}

// AssignRole changes a profile's role
func (h *ProfileHandler) AssignRole(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.profileService.AssignRole(c.Request.Context(), id, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(*info))
}

// AssignTeam moves a profile into a team, or out of any team on null
func (h *ProfileHandler) AssignTeam(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var teamID *uuid.UUID
	if req.TeamID != nil {
		parsed, err := uuid.Parse(*req.TeamID)
		if err != nil {
			h.BadRequest(c, "Invalid team ID")
			return
		}
		teamID = &parsed
	}

	info, err := h.profileService.AssignTeam(c.Request.Context(), id, teamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(*info))
}

// ResetPassword sets a new password without the current one
func (h *ProfileHandler) ResetPassword(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.profileService.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// pathID binds and parses the :id path parameter
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID parameter")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID parameter")
		return uuid.Nil, false
	}
	return id, true
}
