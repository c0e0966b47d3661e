package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the access level of a profile
type Role string

const (
	RoleUser    Role = "user"    // Sees and manages own commission entries
	RoleManager Role = "manager" // Additionally sees entries of managed teams
	RoleAdmin   Role = "admin"   // Full access, role and team administration
)

// AllRoles lists every valid role
var AllRoles = []Role{RoleUser, RoleManager, RoleAdmin}

// ErrUnknownRole is returned when a stored role is outside the closed enum
var ErrUnknownRole = shared.NewDomainError("UNKNOWN_ROLE", "Profile role is not recognized")

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

// Profile represents an account in the system
// It is the aggregate root for identity operations
type Profile struct {
	shared.BaseAggregateRoot
	Email                 string
	DisplayName           string
	PasswordHash          string
	Role                  Role
	TeamID                *uuid.UUID
	DefaultCommissionRate decimal.Decimal // percent, 0-100
	LastLoginAt           *time.Time
}

// NewProfile creates a new profile with required fields
func NewProfile(email, displayName, password string, role Role, defaultRate decimal.Decimal) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of user, manager, admin")
	}
	if err := validateRate(defaultRate); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Profile{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Email:                 email,
		DisplayName:           strings.TrimSpace(displayName),
		PasswordHash:          passwordHash,
		Role:                  role,
		DefaultCommissionRate: defaultRate,
	}, nil
}

// SetDisplayName sets the profile's display name
func (p *Profile) SetDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	p.DisplayName = displayName
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDefaultCommissionRate sets the rate applied to new entries for this profile
func (p *Profile) SetDefaultCommissionRate(rate decimal.Decimal) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	p.DefaultCommissionRate = rate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AssignRole changes the profile's role (admin action)
func (p *Profile) AssignRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be one of user, manager, admin")
	}

	p.Role = role
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AssignTeam places the profile in a team; nil removes team membership
func (p *Profile) AssignTeam(teamID *uuid.UUID) {
	p.TeamID = teamID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ChangePassword changes the profile's password after verifying the old one
func (p *Profile) ChangePassword(oldPassword, newPassword string) error {
	if !p.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return p.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (p *Profile) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	p.PasswordHash = passwordHash
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (p *Profile) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin records a successful login
func (p *Profile) RecordLogin() {
	now := time.Now()
	p.LastLoginAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	return nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_RATE", "Commission rate must be between 0 and 100")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
