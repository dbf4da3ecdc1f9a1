package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository is a database-backed repository for user profiles.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// UpsertInput carries the caller-editable profile fields. Email identifies
// the row; the daily calorie target is recomputed from the body metrics.
type UpsertInput struct {
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Country         string   `json:"country"`
	Cuisines        []string `json:"cuisines"`
	HeightCm        float64  `json:"heightCm"`
	CurrentWeightKg float64  `json:"currentWeightKg"`
	TargetWeightKg  float64  `json:"targetWeightKg"`
	Goal            string   `json:"goal"`
	ActivityLevel   string   `json:"activityLevel"`
	RamadanMode     bool     `json:"ramadanMode"`
}

// Upsert creates or updates the profile keyed by lowercased email and
// returns the stored row.
func (r *Repository) Upsert(ctx context.Context, in UpsertInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	goal := normalizeGoal(in.Goal)
	activity := normalizeActivityLevel(in.ActivityLevel)
	target := CalculateCalorieProfile(in.CurrentWeightKg, in.HeightCm, goal, activity).DailyCaloriesTarget

	cuisines := in.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	cuisinesJSON, err := json.Marshal(cuisines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cuisines: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, country, cuisines, height_cm, current_weight_kg,
		   target_weight_kg, goal, activity_level, daily_calories_target, ramadan_mode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET
		   name = excluded.name,
		   country = excluded.country,
		   cuisines = excluded.cuisines,
		   height_cm = excluded.height_cm,
		   current_weight_kg = excluded.current_weight_kg,
		   target_weight_kg = excluded.target_weight_kg,
		   goal = excluded.goal,
		   activity_level = excluded.activity_level,
		   daily_calories_target = excluded.daily_calories_target,
		   ramadan_mode = excluded.ramadan_mode,
		   updated_at = excluded.updated_at`,
		uuid.NewString(), email, in.Name, in.Country, string(cuisinesJSON),
		in.HeightCm, in.CurrentWeightKg, in.TargetWeightKg, goal, activity,
		target, in.RamadanMode, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetByEmail(ctx, email)
}

const userColumns = `id, email, name, country, cuisines, height_cm, current_weight_kg,
	target_weight_kg, goal, activity_level, daily_calories_target, ramadan_mode, created_at, updated_at`

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by lowercased email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// List returns all users, newest first.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ListIDs returns the IDs of all users.
func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var cuisinesJSON string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Country, &cuisinesJSON,
		&u.HeightCm, &u.CurrentWeightKg, &u.TargetWeightKg, &u.Goal,
		&u.ActivityLevel, &u.DailyCaloriesTarget, &u.RamadanMode,
		&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if err := json.Unmarshal([]byte(cuisinesJSON), &u.Cuisines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cuisines: %w", err)
	}
	return &u, nil
}
