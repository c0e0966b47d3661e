package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence operations for profiles
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindAll(ctx context.Context) ([]*Profile, error)
	FindByTeam(ctx context.Context, teamID uuid.UUID) ([]*Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// TeamRepository defines persistence operations for teams
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Update(ctx context.Context, team *Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)
	FindAll(ctx context.Context) ([]*Team, error)
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]*Team, error)
}
