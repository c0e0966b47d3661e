package commission

import (
	"context"

	"github.com/google/uuid"

	"github.com/commtrack/backend/internal/domain/identity"
)

// Scope is the set of entry owners an actor may see and act on.
// A nil OwnerIDs means unrestricted.
type Scope struct {
	Actor    *identity.Profile
	OwnerIDs []uuid.UUID
}

// CanSee reports whether entries of the given owner fall inside the scope
func (s *Scope) CanSee(ownerID uuid.UUID) bool {
	if s.OwnerIDs == nil {
		return true
	}
	for _, id := range s.OwnerIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// ScopeResolver derives the visibility scope for an actor from their role
// and team assignments. All list, read and mutate paths go through it.
type ScopeResolver struct {
	profileRepo identity.ProfileRepository
	teamRepo    identity.TeamRepository
}

// NewScopeResolver creates a scope resolver
func NewScopeResolver(profileRepo identity.ProfileRepository, teamRepo identity.TeamRepository) *ScopeResolver {
	return &ScopeResolver{profileRepo: profileRepo, teamRepo: teamRepo}
}

// Resolve returns the acting profile's scope: users see themselves, managers
// additionally see members of teams they manage, admins see everyone.
func (r *ScopeResolver) Resolve(ctx context.Context, actorID uuid.UUID) (*Scope, error) {
	actor, err := r.profileRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case identity.RoleUser:
		return &Scope{Actor: actor, OwnerIDs: []uuid.UUID{actor.ID}}, nil

	case identity.RoleManager:
		owners := []uuid.UUID{actor.ID}
		seen := map[uuid.UUID]bool{actor.ID: true}

		teams, err := r.teamRepo.FindByManager(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, team := range teams {
			members, err := r.profileRepo.FindByTeam(ctx, team.ID)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if !seen[m.ID] {
					seen[m.ID] = true
					owners = append(owners, m.ID)
				}
			}
		}
		return &Scope{Actor: actor, OwnerIDs: owners}, nil

	case identity.RoleAdmin:
		return &Scope{Actor: actor}, nil
	}

	return nil, identity.ErrUnknownRole
}
