package plan

import (
	"context"
	"time"

	"calorion/internal/logger"
)

// Sweeper periodically backfills missing current-week plans for every known
// user. It never forces regeneration of a present, non-stale plan; that is
// GetCurrentPlan's contract.
type Sweeper struct {
	service  *Service
	profiles ProfileProvider
	interval time.Duration
	log      *logger.Logger
}

// NewSweeper creates a Sweeper that runs every interval.
func NewSweeper(service *Service, profiles ProfileProvider, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		profiles: profiles,
		interval: interval,
		log:      log.With("task", "plan-sweeper"),
	}
}

// Run blocks, sweeping on every tick until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce walks all users sequentially. A failing user is logged and
// skipped; it never aborts the rest of the sweep.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	userIDs, err := s.profiles.ListUserIDs(ctx)
	if err != nil {
		s.log.Error("failed to list users for sweep", "error", err)
		return
	}

	for _, userID := range userIDs {
		if _, err := s.service.GetCurrentPlan(ctx, userID); err != nil {
			s.log.Warn("sweep skipped user", "user_id", userID, "error", err)
		}
	}
}
