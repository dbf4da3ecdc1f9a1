package profile

import (
	"context"
	"errors"
	"fmt"

	"calorion/internal/plan"
)

// Provider adapts the profile repository to the plan engine's
// ProfileProvider contract.
type Provider struct {
	repo *Repository
}

// NewProvider creates a Provider backed by repo.
func NewProvider(repo *Repository) *Provider {
	return &Provider{repo: repo}
}

// GetProfile returns the plan-facing slice of a user's profile.
func (p *Provider) GetProfile(ctx context.Context, userID string) (*plan.Profile, error) {
	u, err := p.repo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, plan.ErrProfileNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &plan.Profile{
		ID:                  u.ID,
		DailyCaloriesTarget: u.DailyCaloriesTarget,
		Cuisines:            u.Cuisines,
		Country:             u.Country,
		RamadanMode:         u.RamadanMode,
	}, nil
}

// ListUserIDs enumerates the user population for the background sweep.
func (p *Provider) ListUserIDs(ctx context.Context) ([]string, error) {
	return p.repo.ListIDs(ctx)
}
