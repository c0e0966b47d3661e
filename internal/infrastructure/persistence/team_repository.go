package persistence

import (
	"context"
	"errors"

	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/commtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTeamRepository implements TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing team
func (r *GormTeamRepository) Update(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all teams ordered by name
func (r *GormTeamRepository) FindAll(ctx context.Context) ([]*identity.Team, error) {
	var teamModels []*models.TeamModel
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}

	teams := make([]*identity.Team, len(teamModels))
	for i, model := range teamModels {
		teams[i] = model.ToDomain()
	}
	return teams, nil
}

// FindByManager returns the teams managed by the given profile
func (r *GormTeamRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]*identity.Team, error) {
	var teamModels []*models.TeamModel
	if err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("name asc").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}

	teams := make([]*identity.Team, len(teamModels))
	for i, model := range teamModels {
		teams[i] = model.ToDomain()
	}
	return teams, nil
}

// Ensure GormTeamRepository implements TeamRepository
var _ identity.TeamRepository = (*GormTeamRepository)(nil)
