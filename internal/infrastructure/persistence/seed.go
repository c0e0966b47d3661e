package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeder populates an empty database with a small demo dataset so the
// application is usable immediately after first start.
type Seeder struct {
	profiles identity.ProfileRepository
	teams    identity.TeamRepository
	entries  commission.EntryRepository
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	profiles identity.ProfileRepository,
	teams identity.TeamRepository,
	entries commission.EntryRepository,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		profiles: profiles,
		teams:    teams,
		entries:  entries,
		logger:   logger,
	}
}

// SeedDemoData inserts the demo dataset if no profiles exist yet.
// Returns true if data was seeded.
func (s *Seeder) SeedDemoData(ctx context.Context) (bool, error) {
	count, err := s.profiles.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count profiles: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	s.logger.Info("Empty database detected, seeding demo data")

	admin, err := identity.NewProfile("admin@example.com", "Admin", "admin1234", identity.RoleAdmin, decimal.Zero)
	if err != nil {
		return false, err
	}
	if err := s.profiles.Create(ctx, admin); err != nil {
		return false, err
	}

	manager, err := identity.NewProfile("dana@example.com", "Dana Levy", "manager1234", identity.RoleManager, decimal.NewFromInt(12))
	if err != nil {
		return false, err
	}
	if err := s.profiles.Create(ctx, manager); err != nil {
		return false, err
	}

	team, err := identity.NewTeam("Delivery")
	if err != nil {
		return false, err
	}
	team.SetManager(&manager.ID)
	if err := s.teams.Create(ctx, team); err != nil {
		return false, err
	}

	freelancer, err := identity.NewProfile("noam@example.com", "Noam Peretz", "user12345", identity.RoleUser, decimal.NewFromInt(10))
	if err != nil {
		return false, err
	}
	freelancer.AssignTeam(&team.ID)
	if err := s.profiles.Create(ctx, freelancer); err != nil {
		return false, err
	}

	now := time.Now()
	thisMonth := commission.FirstOfMonth(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	paidDate := lastMonth.AddDate(0, 0, 14)

	demoEntries := []commission.NewEntryInput{
		{
			OwnerID:         freelancer.ID,
			InvoiceNumber:   "INV-1001",
			Customer:        "Acme Ltd",
			Project:         "Website rebuild",
			AmountBeforeVAT: decimal.NewFromInt(12000),
			CostBeforeVAT:   decimal.NewFromInt(1500),
			CommissionRate:  decimal.NewFromInt(10),
			InvoiceMonth:    lastMonth,
			ClientPaidDate:  &paidDate,
		},
		{
			OwnerID:         freelancer.ID,
			InvoiceNumber:   "INV-1002",
			ReceiptNumber:   "RC-88",
			Customer:        "Globex",
			Project:         "API integration",
			AmountBeforeVAT: decimal.NewFromInt(8000),
			CommissionRate:  decimal.NewFromInt(10),
			InvoiceMonth:    thisMonth,
		},
		{
			OwnerID:         manager.ID,
			InvoiceNumber:   "INV-2001",
			Customer:        "Initech",
			Project:         "Quarterly consulting",
			AmountBeforeVAT: decimal.NewFromInt(20000),
			CostBeforeVAT:   decimal.NewFromInt(2000),
			CommissionRate:  decimal.NewFromInt(12),
			InvoiceMonth:    thisMonth,
		},
	}

	for _, input := range demoEntries {
		entry, err := commission.NewEntry(input)
		if err != nil {
			return false, err
		}
		if err := s.entries.Create(ctx, entry); err != nil {
			return false, err
		}
	}

	s.logger.Info("Demo data seeded",
		zap.Int("profiles", 3),
		zap.Int("entries", len(demoEntries)),
	)

	return true, nil
}
