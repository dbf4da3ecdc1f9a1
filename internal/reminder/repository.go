package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is a database-backed repository for reminders.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create validates and stores a new reminder for the user.
func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (*Reminder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	timezone := strings.TrimSpace(in.Timezone)
	if timezone == "" {
		timezone = "Europe/Berlin"
	}
	rem := &Reminder{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          strings.TrimSpace(in.Title),
		Time:           in.Time,
		Timezone:       timezone,
		Enabled:        enabled,
		RamadanOnly:    in.RamadanOnly,
		TelegramChatID: strings.TrimSpace(in.TelegramChatID),
		CreatedAt:      time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, title, time, timezone, enabled, ramadan_only, telegram_chat_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.UserID, rem.Title, rem.Time, rem.Timezone, rem.Enabled, rem.RamadanOnly, rem.TelegramChatID, rem.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return rem, nil
}

const reminderColumns = `id, user_id, title, time, timezone, enabled, ramadan_only, telegram_chat_id, last_triggered_at, created_at`

// ListByUser returns the user's reminders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// Delete removes the user's reminder. Deleting an absent reminder is not an
// error.
func (r *Repository) Delete(ctx context.Context, userID, reminderID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND user_id = ?`, reminderID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// ListDue returns enabled reminders whose wall-clock time matches.
func (r *Repository) ListDue(ctx context.Context, hhmm string) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE enabled = 1 AND time = ?`, hhmm)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// MarkTriggered records the delivery time so the reminder is not re-sent
// within the suppression window.
func (r *Repository) MarkTriggered(ctx context.Context, reminderID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET last_triggered_at = ? WHERE id = ?`, at.UTC(), reminderID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder triggered: %w", err)
	}
	return nil
}

func collectReminders(rows *sql.Rows) ([]Reminder, error) {
	var out []Reminder
	for rows.Next() {
		var rem Reminder
		var lastTriggered sql.NullTime
		err := rows.Scan(&rem.ID, &rem.UserID, &rem.Title, &rem.Time, &rem.Timezone,
			&rem.Enabled, &rem.RamadanOnly, &rem.TelegramChatID, &lastTriggered, &rem.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		if lastTriggered.Valid {
			t := lastTriggered.Time
			rem.LastTriggeredAt = &t
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}
