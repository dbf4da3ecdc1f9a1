package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calorion/internal/logger"
)

// Service orchestrates plan lookup, generation, and user edits for the
// current week. Plan-fetching operations always produce a usable plan: any
// remote-generation failure degrades to the deterministic fallback builder.
type Service struct {
	repo      *Repository
	profiles  ProfileProvider
	generator *Generator
	log       *logger.Logger

	// now is injectable so tests can pin the week.
	now               func() time.Time
	generationTimeout time.Duration
}

// NewService creates a Service. generationTimeout bounds the single remote
// call; zero or negative selects the 15s default.
func NewService(repo *Repository, profiles ProfileProvider, generator *Generator, log *logger.Logger, generationTimeout time.Duration) *Service {
	if generationTimeout <= 0 {
		generationTimeout = 15 * time.Second
	}
	return &Service{
		repo:              repo,
		profiles:          profiles,
		generator:         generator,
		log:               log.With("service", "plan"),
		now:               time.Now,
		generationTimeout: generationTimeout,
	}
}

// GetCurrentPlan returns the plan for the current week, generating one if
// the week has no row yet or the stored row is stale. A stale row that
// cannot be regenerated (e.g. the profile disappeared) is served as-is.
func (s *Service) GetCurrentPlan(ctx context.Context, userID string) (*WeeklyPlan, error) {
	existing, err := s.repo.Get(ctx, userID, WeekStart(s.now()))
	if err != nil {
		return nil, err
	}
	if existing != nil && !IsStale(existing) {
		return existing, nil
	}

	regenerated, err := s.Regenerate(ctx, userID)
	if err != nil {
		if existing != nil {
			s.log.Warn("failed to refresh stale plan, serving existing row",
				"user_id", userID, "error", err)
			return existing, nil
		}
		return nil, err
	}
	return regenerated, nil
}

// Regenerate builds a fresh plan for the current week and stores it,
// overwriting whatever row exists, including user edits. The remote
// generator is tried first with the previous week's plan as anti-repetition
// context; on any failure the offline builder takes over and the stored
// provenance records which path produced the result.
func (s *Service) Regenerate(ctx context.Context, userID string) (*WeeklyPlan, error) {
	prof, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}

	week := WeekStart(s.now())
	previous, err := s.repo.Get(ctx, userID, PreviousWeekStart(s.now()))
	if err != nil {
		return nil, err
	}
	var prevDays []DayPlan
	if previous != nil {
		prevDays = previous.Days
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	days, err := s.generator.Generate(genCtx, prof, week, prevDays)
	generatedBy := GeneratedByAI
	if err != nil {
		if !errors.Is(err, ErrGeneratorUnavailable) {
			s.log.Warn("remote generation failed, using fallback plan",
				"user_id", userID, "error", err)
		}
		days = BuildFallbackDays(week, prof)
		generatedBy = GeneratedByFallback
	}

	return s.repo.Upsert(ctx, userID, week, normalizeDays(week, days), generatedBy)
}

// UpdateCurrentPlan stores a user-edited plan for the current week. Each
// submitted day must carry a YYYY-MM-DD date and at least one meal; per-day
// totals are recomputed from the meals regardless of what the caller sent.
func (s *Service) UpdateCurrentPlan(ctx context.Context, userID string, days []DayPlan) (*WeeklyPlan, error) {
	if len(days) == 0 {
		return nil, ErrInvalidDays
	}
	for i, d := range days {
		if d.Date == "" {
			return nil, fmt.Errorf("%w: day %d has no date", ErrInvalidDays, i)
		}
		if _, err := time.Parse(dateLayout, d.Date); err != nil {
			return nil, fmt.Errorf("%w: day %d has invalid date %q", ErrInvalidDays, i, d.Date)
		}
		if len(d.Meals) == 0 {
			return nil, fmt.Errorf("%w: day %d has no meals", ErrInvalidDays, i)
		}
	}

	week := WeekStart(s.now())
	return s.repo.Upsert(ctx, userID, week, normalizeDays(week, days), GeneratedByUserEdit)
}
