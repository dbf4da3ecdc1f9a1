package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed repository for weekly plans. One row per
// (user, week); the unique constraint on (user_id, week_start) makes Upsert
// atomic under concurrent writers.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves the plan for a (user, week) key, or nil if absent.
func (r *Repository) Get(ctx context.Context, userID string, weekStart time.Time) (*WeeklyPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, week_start, days, generated_by, created_at, updated_at
		 FROM weekly_plans WHERE user_id = ? AND week_start = ?`,
		userID, DateString(weekStart))

	var p WeeklyPlan
	var daysJSON string
	err := row.Scan(&p.ID, &p.UserID, &p.WeekStart, &daysJSON, &p.GeneratedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly plan: %w", err)
	}
	if err := json.Unmarshal([]byte(daysJSON), &p.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan days: %w", err)
	}
	return &p, nil
}

// Upsert atomically creates or replaces the plan for a (user, week) key and
// returns the stored row. Concurrent upserts of the same key are
// last-write-wins on content and never produce a second row.
func (r *Repository) Upsert(ctx context.Context, userID string, weekStart time.Time, days []DayPlan, generatedBy string) (*WeeklyPlan, error) {
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan days: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO weekly_plans (user_id, week_start, days, generated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, week_start) DO UPDATE SET
		   days = excluded.days,
		   generated_by = excluded.generated_by,
		   updated_at = excluded.updated_at`,
		userID, DateString(weekStart), string(daysJSON), generatedBy, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weekly plan: %w", err)
	}

	return r.Get(ctx, userID, weekStart)
}

// Count returns the number of stored weekly plans.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weekly_plans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count weekly plans: %w", err)
	}
	return n, nil
}
