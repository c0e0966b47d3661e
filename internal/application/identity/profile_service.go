package identity

import (
	"context"

	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService handles profile management. Creation, role and team
// assignment are admin operations; the rest is self-service.
type ProfileService struct {
	profileRepo identity.ProfileRepository
	teamRepo    identity.TeamRepository
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo identity.ProfileRepository,
	teamRepo identity.TeamRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		logger:      logger,
	}
}

// Create registers a new profile
func (s *ProfileService) Create(ctx context.Context, input CreateProfileInput) (*ProfileInfo, error) {
	exists, err := s.profileRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A profile with this email already exists")
	}

	profile, err := identity.NewProfile(input.Email, input.DisplayName, input.Password, input.Role, input.DefaultCommissionRate)
	if err != nil {
		return nil, err
	}

	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(ctx, *input.TeamID); err != nil {
			return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team does not exist")
		}
		profile.AssignTeam(input.TeamID)
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Profile created",
		zap.String("profile_id", profile.ID.String()),
		zap.String("email", profile.Email),
		zap.String("role", string(profile.Role)),
	)

	info := NewProfileInfo(profile)
	return &info, nil
}

// Get returns a single profile
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := NewProfileInfo(profile)
	return &info, nil
}

// List returns all profiles
func (s *ProfileService) List(ctx context.Context) ([]ProfileInfo, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ProfileInfo, len(profiles))
	for i, p := range profiles {
		infos[i] = NewProfileInfo(p)
	}
	return infos, nil
}

// Update applies self-service profile edits
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if err := profile.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.DefaultCommissionRate != nil {
		if err := profile.SetDefaultCommissionRate(*input.DefaultCommissionRate); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	info := NewProfileInfo(profile)
	return &info, nil
}

// AssignRole changes a profile's role (admin action)
func (s *ProfileService) AssignRole(ctx context.Context, id uuid.UUID, role identity.Role) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := profile.AssignRole(role); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Role assigned",
		zap.String("profile_id", id.String()),
		zap.String("role", string(role)),
	)

	info := NewProfileInfo(profile)
	return &info, nil
}

// AssignTeam places a profile in a team; nil removes membership (admin action)
func (s *ProfileService) AssignTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if teamID != nil {
		if _, err := s.teamRepo.FindByID(ctx, *teamID); err != nil {
			return nil, shared.NewDomainError("TEAM_NOT_FOUND", "Team does not exist")
		}
	}

	profile.AssignTeam(teamID)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	info := NewProfileInfo(profile)
	return &info, nil
}

// ResetPassword sets a new password without the current one (admin action)
func (s *ProfileService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := profile.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return err
	}

	s.logger.Info("Password reset", zap.String("profile_id", id.String()))
	return nil
}
