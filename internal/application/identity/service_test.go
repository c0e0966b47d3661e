package identity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/commtrack/backend/internal/application/identity"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/commtrack/backend/internal/infrastructure/auth"
	"github.com/commtrack/backend/internal/infrastructure/config"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*identity.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*identity.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *identity.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *identity.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return shared.ErrNotFound
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*identity.Profile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProfileRepo) FindAll(_ context.Context) ([]*identity.Profile, error) {
	out := make([]*identity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) FindByTeam(_ context.Context, teamID uuid.UUID) ([]*identity.Profile, error) {
	var out []*identity.Profile
	for _, p := range r.profiles {
		if p.TeamID != nil && *p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeProfileRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.profiles)), nil
}

type fakeTeamRepo struct {
	teams map[uuid.UUID]*identity.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[uuid.UUID]*identity.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, t *identity.Team) error {
	r.teams[t.ID] = t
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, t *identity.Team) error {
	if _, ok := r.teams[t.ID]; !ok {
		return shared.ErrNotFound
	}
	r.teams[t.ID] = t
	return nil
}

func (r *fakeTeamRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTeamRepo) FindAll(_ context.Context) ([]*identity.Team, error) {
	out := make([]*identity.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTeamRepo) FindByManager(_ context.Context, managerID uuid.UUID) ([]*identity.Team, error) {
	var out []*identity.Team
	for _, t := range r.teams {
		if t.ManagerID != nil && *t.ManagerID == managerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "commtrack-test",
	})
}

func mustProfile(t *testing.T, repo *fakeProfileRepo, email, password string, role identity.Role) *identity.Profile {
	t.Helper()
	p, err := identity.NewProfile(email, "Test User", password, role, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns tokens and profile", func(t *testing.T) {
		repo := newFakeProfileRepo()
		profile := mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleManager)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		result, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, profile.ID, result.Profile.ID)
		assert.Equal(t, identity.RoleManager, result.Profile.Role)
	})

	t.Run("login records last login time", func(t *testing.T) {
		repo := newFakeProfileRepo()
		profile := mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		_, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		stored := repo.profiles[profile.ID]
		require.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := newFakeProfileRepo()
		mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		_, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "wrong-password",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown email is rejected with the same code", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		_, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "nobody@example.com",
			Password: "secret123",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		repo := newFakeProfileRepo()
		mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		login, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		refreshed, err := svc.RefreshToken(ctx, appidentity.RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("refresh reflects a role change", func(t *testing.T) {
		repo := newFakeProfileRepo()
		profile := mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		login, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		require.NoError(t, profile.AssignRole(identity.RoleManager))

		refreshed, err := svc.RefreshToken(ctx, appidentity.RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.NoError(t, err)
		assert.Equal(t, identity.RoleManager, refreshed.Profile.Role)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		_, err := svc.RefreshToken(ctx, appidentity.RefreshTokenInput{
			RefreshToken: "not-a-token",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("access token is not accepted for refresh", func(t *testing.T) {
		repo := newFakeProfileRepo()
		mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		login, err := svc.Login(ctx, appidentity.LoginInput{
			Email:    "dana@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, appidentity.RefreshTokenInput{
			RefreshToken: login.AccessToken,
		})
		require.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password when current matches", func(t *testing.T) {
		repo := newFakeProfileRepo()
		profile := mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		err := svc.ChangePassword(ctx, profile.ID, appidentity.ChangePasswordInput{
			CurrentPassword: "secret123",
			NewPassword:     "brand-new-pass",
		})

		require.NoError(t, err)
		assert.True(t, repo.profiles[profile.ID].VerifyPassword("brand-new-pass"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := newFakeProfileRepo()
		profile := mustProfile(t, repo, "dana@example.com", "secret123", identity.RoleUser)
		svc := appidentity.NewAuthService(repo, testJWTService(), zap.NewNop())

		err := svc.ChangePassword(ctx, profile.ID, appidentity.ChangePasswordInput{
			CurrentPassword: "wrong",
			NewPassword:     "brand-new-pass",
		})

		require.Error(t, err)
		assert.True(t, repo.profiles[profile.ID].VerifyPassword("secret123"))
	})
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*appidentity.ProfileService, *fakeProfileRepo, *fakeTeamRepo) {
		profiles := newFakeProfileRepo()
		teams := newFakeTeamRepo()
		return appidentity.NewProfileService(profiles, teams, zap.NewNop()), profiles, teams
	}

	t.Run("create profile", func(t *testing.T) {
		svc, _, _ := newService()

		info, err := svc.Create(ctx, appidentity.CreateProfileInput{
			Email:                 "noam@example.com",
			DisplayName:           "Noam",
			Password:              "secret123",
			Role:                  identity.RoleUser,
			DefaultCommissionRate: decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, "noam@example.com", info.Email)
		assert.Equal(t, identity.RoleUser, info.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, repo, _ := newService()
		mustProfile(t, repo, "noam@example.com", "secret123", identity.RoleUser)

		_, err := svc.Create(ctx, appidentity.CreateProfileInput{
			Email:                 "noam@example.com",
			DisplayName:           "Other",
			Password:              "secret123",
			Role:                  identity.RoleUser,
			DefaultCommissionRate: decimal.NewFromInt(10),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})

	t.Run("create with unknown team fails", func(t *testing.T) {
		svc, _, _ := newService()
		teamID := uuid.New()

		_, err := svc.Create(ctx, appidentity.CreateProfileInput{
			Email:                 "noam@example.com",
			DisplayName:           "Noam",
			Password:              "secret123",
			Role:                  identity.RoleUser,
			TeamID:                &teamID,
			DefaultCommissionRate: decimal.NewFromInt(10),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TEAM_NOT_FOUND", domainErr.Code)
	})

	t.Run("update changes only provided fields", func(t *testing.T) {
		svc, repo, _ := newService()
		profile := mustProfile(t, repo, "noam@example.com", "secret123", identity.RoleUser)

		name := "Renamed"
		info, err := svc.Update(ctx, profile.ID, appidentity.UpdateProfileInput{
			DisplayName: &name,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", info.DisplayName)
		assert.True(t, info.DefaultCommissionRate.Equal(decimal.NewFromInt(10)))
	})

	t.Run("assign role", func(t *testing.T) {
		svc, repo, _ := newService()
		profile := mustProfile(t, repo, "noam@example.com", "secret123", identity.RoleUser)

		info, err := svc.AssignRole(ctx, profile.ID, identity.RoleManager)

		require.NoError(t, err)
		assert.Equal(t, identity.RoleManager, info.Role)
	})

	t.Run("assign team and clear team", func(t *testing.T) {
		svc, repo, teams := newService()
		profile := mustProfile(t, repo, "noam@example.com", "secret123", identity.RoleUser)
		team, err := identity.NewTeam("Delivery")
		require.NoError(t, err)
		require.NoError(t, teams.Create(ctx, team))

		info, err := svc.AssignTeam(ctx, profile.ID, &team.ID)
		require.NoError(t, err)
		require.NotNil(t, info.TeamID)
		assert.Equal(t, team.ID, *info.TeamID)

		info, err = svc.AssignTeam(ctx, profile.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, info.TeamID)
	})

	t.Run("reset password", func(t *testing.T) {
		svc, repo, _ := newService()
		profile := mustProfile(t, repo, "noam@example.com", "secret123", identity.RoleUser)

		require.NoError(t, svc.ResetPassword(ctx, profile.ID, "admin-set-pass"))
		assert.True(t, repo.profiles[profile.ID].VerifyPassword("admin-set-pass"))
	})
}

func TestTeamService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*appidentity.TeamService, *fakeProfileRepo, *fakeTeamRepo) {
		profiles := newFakeProfileRepo()
		teams := newFakeTeamRepo()
		return appidentity.NewTeamService(teams, profiles, zap.NewNop()), profiles, teams
	}

	t.Run("create team with manager", func(t *testing.T) {
		svc, profiles, _ := newService()
		manager := mustProfile(t, profiles, "dana@example.com", "secret123", identity.RoleManager)

		info, err := svc.Create(ctx, "Delivery", &manager.ID)

		require.NoError(t, err)
		assert.Equal(t, "Delivery", info.Name)
		require.NotNil(t, info.ManagerID)
		assert.Equal(t, manager.ID, *info.ManagerID)
	})

	t.Run("manager must hold the manager role", func(t *testing.T) {
		svc, profiles, _ := newService()
		plain := mustProfile(t, profiles, "noam@example.com", "secret123", identity.RoleUser)

		_, err := svc.Create(ctx, "Delivery", &plain.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_A_MANAGER", domainErr.Code)
	})

	t.Run("get includes members", func(t *testing.T) {
		svc, profiles, teams := newService()
		team, err := identity.NewTeam("Delivery")
		require.NoError(t, err)
		require.NoError(t, teams.Create(ctx, team))
		member := mustProfile(t, profiles, "noam@example.com", "secret123", identity.RoleUser)
		member.AssignTeam(&team.ID)

		info, err := svc.Get(ctx, team.ID)

		require.NoError(t, err)
		require.Len(t, info.Members, 1)
		assert.Equal(t, member.ID, info.Members[0].ID)
	})

	t.Run("rename", func(t *testing.T) {
		svc, _, teams := newService()
		team, err := identity.NewTeam("Delivery")
		require.NoError(t, err)
		require.NoError(t, teams.Create(ctx, team))

		info, err := svc.Rename(ctx, team.ID, "Platform")

		require.NoError(t, err)
		assert.Equal(t, "Platform", info.Name)
	})

	t.Run("clear manager", func(t *testing.T) {
		svc, profiles, teams := newService()
		manager := mustProfile(t, profiles, "dana@example.com", "secret123", identity.RoleManager)
		team, err := identity.NewTeam("Delivery")
		require.NoError(t, err)
		team.SetManager(&manager.ID)
		require.NoError(t, teams.Create(ctx, team))

		info, err := svc.SetManager(ctx, team.ID, nil)

		require.NoError(t, err)
		assert.Nil(t, info.ManagerID)
	})
}
