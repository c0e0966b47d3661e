package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/commtrack/backend/internal/application/identity"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the token refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse represents the issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ProfileResponse represents a profile in responses
type ProfileResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"display_name"`
	Role                  string     `json:"role"`
	TeamID                *uuid.UUID `json:"team_id,omitempty"`
	DefaultCommissionRate string     `json:"default_commission_rate"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

func toProfileResponse(p identity.ProfileInfo) ProfileResponse {
	return ProfileResponse{
		ID:                    p.ID,
		Email:                 p.Email,
		DisplayName:           p.DisplayName,
		Role:                  string(p.Role),
		TeamID:                p.TeamID,
		DefaultCommissionRate: p.DefaultCommissionRate.String(),
		LastLoginAt:           p.LastLoginAt,
		CreatedAt:             p.CreatedAt,
	}
}

func toProfileResponses(infos []identity.ProfileInfo) []ProfileResponse {
	out := make([]ProfileResponse, len(infos))
	for i, info := range infos {
		out[i] = toProfileResponse(info)
	}
	return out
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token   TokenResponse   `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// CreateProfileRequest represents the profile creation request body
type CreateProfileRequest struct {
	Email                 string   `json:"email" binding:"required,email"`
	DisplayName           string   `json:"display_name" binding:"required"`
	Password              string   `json:"password" binding:"required,min=8"`
	Role                  string   `json:"role" binding:"required,oneof=user manager admin"`
	TeamID                *string  `json:"team_id" binding:"omitempty,uuid"`
	DefaultCommissionRate *float64 `json:"default_commission_rate"`
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	DisplayName           *string  `json:"display_name"`
	DefaultCommissionRate *float64 `json:"default_commission_rate"`
}

// AssignRoleRequest represents the role assignment request body
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user manager admin"`
}

// AssignTeamRequest represents the team assignment request body.
// A null team ID clears the assignment.
type AssignTeamRequest struct {
	TeamID *string `json:"team_id" binding:"omitempty,uuid"`
}

// ResetPasswordRequest represents the admin password reset request body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// TeamResponse represents a team in responses
type TeamResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	ManagerID *uuid.UUID        `json:"manager_id,omitempty"`
	Members   []ProfileResponse `json:"members,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toTeamResponse(info identity.TeamInfo) TeamResponse {
	resp := TeamResponse{
		ID:        info.ID,
		Name:      info.Name,
		ManagerID: info.ManagerID,
		CreatedAt: info.CreatedAt,
	}
	if len(info.Members) > 0 {
		resp.Members = toProfileResponses(info.Members)
	}
	return resp
}

// CreateTeamRequest represents the team creation request body
type CreateTeamRequest struct {
	Name      string  `json:"name" binding:"required"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

// RenameTeamRequest represents the team rename request body
type RenameTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetManagerRequest represents the manager assignment request body.
// A null manager ID clears the manager.
type SetManagerRequest struct {
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}
