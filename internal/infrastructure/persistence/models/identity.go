package models

import (
	"time"

	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileModel is the persistence model for the Profile domain entity.
type ProfileModel struct {
	AggregateModel
	Email                 string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	DisplayName           string          `gorm:"type:varchar(200);not null"`
	PasswordHash          string          `gorm:"type:varchar(255);not null"`
	Role                  identity.Role   `gorm:"type:varchar(20);not null;default:'user'"`
	TeamID                *uuid.UUID      `gorm:"type:uuid;index"`
	DefaultCommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LastLoginAt           *time.Time
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile entity.
func (m *ProfileModel) ToDomain() *identity.Profile {
	p := &identity.Profile{
		Email:                 m.Email,
		DisplayName:           m.DisplayName,
		PasswordHash:          m.PasswordHash,
		Role:                  m.Role,
		TeamID:                m.TeamID,
		DefaultCommissionRate: m.DefaultCommissionRate,
		LastLoginAt:           m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Profile entity.
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Email = p.Email
	m.DisplayName = p.DisplayName
	m.PasswordHash = p.PasswordHash
	m.Role = p.Role
	m.TeamID = p.TeamID
	m.DefaultCommissionRate = p.DefaultCommissionRate
	m.LastLoginAt = p.LastLoginAt
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile entity.
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}

// TeamModel is the persistence model for the Team domain entity.
type TeamModel struct {
	AggregateModel
	Name      string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team entity.
func (m *TeamModel) ToDomain() *identity.Team {
	t := &identity.Team{
		Name:      m.Name,
		ManagerID: m.ManagerID,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Team entity.
func (m *TeamModel) FromDomain(t *identity.Team) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.ManagerID = t.ManagerID
}

// TeamModelFromDomain creates a new persistence model from a domain Team entity.
func TeamModelFromDomain(t *identity.Team) *TeamModel {
	m := &TeamModel{}
	m.FromDomain(t)
	return m
}
