package identity

import (
	"time"

	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoginInput contains login credentials
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the tokens and profile info returned on login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Profile               ProfileInfo
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// ProfileInfo is the profile view returned to callers
type ProfileInfo struct {
	ID                    uuid.UUID
	Email                 string
	DisplayName           string
	Role                  identity.Role
	TeamID                *uuid.UUID
	DefaultCommissionRate decimal.Decimal
	LastLoginAt           *time.Time
	CreatedAt             time.Time
}

// NewProfileInfo builds a ProfileInfo from a domain profile
func NewProfileInfo(p *identity.Profile) ProfileInfo {
	return ProfileInfo{
		ID:                    p.ID,
		Email:                 p.Email,
		DisplayName:           p.DisplayName,
		Role:                  p.Role,
		TeamID:                p.TeamID,
		DefaultCommissionRate: p.DefaultCommissionRate,
		LastLoginAt:           p.LastLoginAt,
		CreatedAt:             p.CreatedAt,
	}
}

// CreateProfileInput contains the fields for registering a profile
type CreateProfileInput struct {
	Email                 string
	DisplayName           string
	Password              string
	Role                  identity.Role
	TeamID                *uuid.UUID
	DefaultCommissionRate decimal.Decimal
}

// UpdateProfileInput contains the self-service editable profile fields.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	DisplayName           *string
	DefaultCommissionRate *decimal.Decimal
}

// ChangePasswordInput contains the fields for a password change
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// TeamInfo is the team view returned to callers
type TeamInfo struct {
	ID        uuid.UUID
	Name      string
	ManagerID *uuid.UUID
	CreatedAt time.Time
	Members   []ProfileInfo
}

// NewTeamInfo builds a TeamInfo from a domain team
func NewTeamInfo(t *identity.Team) TeamInfo {
	return TeamInfo{
		ID:        t.ID,
		Name:      t.Name,
		ManagerID: t.ManagerID,
		CreatedAt: t.CreatedAt,
	}
}
