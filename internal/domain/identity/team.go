package identity

import (
	"strings"
	"time"

	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Team groups profiles under a manager for visibility scoping.
// Membership is a back-reference from Profile, not an owned list.
type Team struct {
	shared.BaseAggregateRoot
	Name      string
	ManagerID *uuid.UUID
}

// NewTeam creates a new team
func NewTeam(name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEAM_NAME", "Team name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_TEAM_NAME", "Team name cannot exceed 100 characters")
	}

	return &Team{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// Rename changes the team name
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TEAM_NAME", "Team name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_TEAM_NAME", "Team name cannot exceed 100 characters")
	}

	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetManager assigns the managing profile; nil clears the manager
func (t *Team) SetManager(managerID *uuid.UUID) {
	t.ManagerID = managerID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
