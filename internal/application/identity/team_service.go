package identity

import (
	"context"

	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TeamService handles team administration
type TeamService struct {
	teamRepo    identity.TeamRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo identity.TeamRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Create creates a new team, optionally with a manager
func (s *TeamService) Create(ctx context.Context, name string, managerID *uuid.UUID) (*TeamInfo, error) {
	team, err := identity.NewTeam(name)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		if err := s.validateManager(ctx, *managerID); err != nil {
			return nil, err
		}
		team.SetManager(managerID)
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("name", team.Name),
	)

	info := NewTeamInfo(team)
	return &info, nil
}

// Get returns a team with its members
func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*TeamInfo, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := NewTeamInfo(team)

	members, err := s.profileRepo.FindByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	info.Members = make([]ProfileInfo, len(members))
	for i, m := range members {
		info.Members[i] = NewProfileInfo(m)
	}

	return &info, nil
}

// List returns all teams
func (s *TeamService) List(ctx context.Context) ([]TeamInfo, error) {
	teams, err := s.teamRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]TeamInfo, len(teams))
	for i, t := range teams {
		infos[i] = NewTeamInfo(t)
	}
	return infos, nil
}

// Rename changes a team's name
func (s *TeamService) Rename(ctx context.Context, id uuid.UUID, name string) (*TeamInfo, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := team.Rename(name); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	info := NewTeamInfo(team)
	return &info, nil
}

// SetManager assigns the managing profile; nil clears the manager
func (s *TeamService) SetManager(ctx context.Context, id uuid.UUID, managerID *uuid.UUID) (*TeamInfo, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		if err := s.validateManager(ctx, *managerID); err != nil {
			return nil, err
		}
	}

	team.SetManager(managerID)

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	info := NewTeamInfo(team)
	return &info, nil
}

// validateManager checks the manager profile exists and has at least
// the manager role.
func (s *TeamService) validateManager(ctx context.Context, managerID uuid.UUID) error {
	manager, err := s.profileRepo.FindByID(ctx, managerID)
	if err != nil {
		return shared.NewDomainError("MANAGER_NOT_FOUND", "Manager profile does not exist")
	}
	if manager.Role != identity.RoleManager && manager.Role != identity.RoleAdmin {
		return shared.NewDomainError("NOT_A_MANAGER", "Team manager must have the manager or admin role")
	}
	return nil
}
