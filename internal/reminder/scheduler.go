package reminder

import (
	"context"
	"fmt"
	"time"

	"calorion/internal/logger"
)

// Scheduler checks once a minute for due reminders and delivers them.
type Scheduler struct {
	repo     *Repository
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewScheduler creates a Scheduler. notifier may be nil, in which case due
// reminders are still marked triggered but nothing is delivered.
func NewScheduler(repo *Repository, notifier Notifier, log *logger.Logger) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		log:      log.With("service", "reminder-scheduler"),
		now:      time.Now,
	}
}

// Run ticks every minute until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	s.log.Info("reminder scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.log.Error("reminder tick failed", "error", err)
			}
		}
	}
}

// Tick delivers every reminder due at the current wall-clock minute,
// skipping any that fired within the suppression window.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()
	due, err := s.repo.ListDue(ctx, now.Format("15:04"))
	if err != nil {
		return err
	}
	for _, rem := range due {
		if rem.LastTriggeredAt != nil && now.Sub(*rem.LastTriggeredAt) < retriggerSuppression {
			continue
		}
		if s.notifier != nil && rem.TelegramChatID != "" {
			text := fmt.Sprintf("⏰ Calorion reminder: %s", rem.Title)
			if err := s.notifier.Notify(ctx, rem.TelegramChatID, text); err != nil {
				s.log.Warn("failed to deliver reminder", "reminder_id", rem.ID, "error", err)
				continue
			}
		}
		if err := s.repo.MarkTriggered(ctx, rem.ID, now); err != nil {
			s.log.Warn("failed to mark reminder triggered", "reminder_id", rem.ID, "error", err)
		}
	}
	return nil
}
