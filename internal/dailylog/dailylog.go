package dailylog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Item types tracked in a daily log.
const (
	TypeConsumed = "consumed"
	TypeBurned   = "burned"
	TypeBalance  = "balance"
)

const (
	maxItems      = 200
	maxItemValue  = 20000
	minItemValue  = -20000
	maxLabelChars = 160
)

// ErrInvalidLog is returned for malformed dates or item entries.
var ErrInvalidLog = errors.New("invalid daily log")

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Item is one calorie entry in a day's log.
type Item struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Log is a user's calorie ledger for one calendar date. The per-type sums
// are recomputed from the items on every write.
type Log struct {
	UserID           string `json:"userId,omitempty"`
	Date             string `json:"date"`
	Items            []Item `json:"items"`
	CaloriesConsumed int    `json:"caloriesConsumed"`
	CaloriesBurned   int    `json:"caloriesBurned"`
	Balance          int    `json:"balance"`
}

// Repository is a database-backed repository for daily logs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// GetByDate returns the log for (user, date); an absent row comes back as
// an empty log for that date rather than an error.
func (r *Repository) GetByDate(ctx context.Context, userID, date string) (*Log, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT date, items, calories_consumed, calories_burned, balance
		 FROM daily_logs WHERE user_id = ? AND date = ?`, userID, date)

	var l Log
	var itemsJSON string
	err := row.Scan(&l.Date, &itemsJSON, &l.CaloriesConsumed, &l.CaloriesBurned, &l.Balance)
	if err == sql.ErrNoRows {
		return &Log{UserID: userID, Date: date, Items: []Item{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	l.UserID = userID
	if err := json.Unmarshal([]byte(itemsJSON), &l.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily log items: %w", err)
	}
	return &l, nil
}

// UpsertByDate sanitizes the submitted items, recomputes the per-type sums,
// and atomically creates or replaces the (user, date) row.
func (r *Repository) UpsertByDate(ctx context.Context, userID, date string, items []Item) (*Log, error) {
	date = strings.TrimSpace(date)
	if !dateFormat.MatchString(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidLog)
	}

	clean, err := sanitizeItems(items)
	if err != nil {
		return nil, err
	}

	consumed, burned, balance := 0, 0, 0
	for _, it := range clean {
		switch it.Type {
		case TypeConsumed:
			consumed += it.Value
		case TypeBurned:
			burned += it.Value
		case TypeBalance:
			balance += it.Value
		}
	}

	itemsJSON, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal daily log items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO daily_logs (user_id, date, items, calories_consumed, calories_burned, balance, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   items = excluded.items,
		   calories_consumed = excluded.calories_consumed,
		   calories_burned = excluded.calories_burned,
		   balance = excluded.balance,
		   updated_at = excluded.updated_at`,
		userID, date, string(itemsJSON), consumed, burned, balance, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily log: %w", err)
	}

	return &Log{
		UserID:           userID,
		Date:             date,
		Items:            clean,
		CaloriesConsumed: consumed,
		CaloriesBurned:   burned,
		Balance:          balance,
	}, nil
}

// ListRecent returns the user's most recent logs, newest date first.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]Log, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, items, calories_consumed, calories_burned, balance
		 FROM daily_logs WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		var itemsJSON string
		if err := rows.Scan(&l.Date, &itemsJSON, &l.CaloriesConsumed, &l.CaloriesBurned, &l.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		l.UserID = userID
		if err := json.Unmarshal([]byte(itemsJSON), &l.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal daily log items: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
var whitespaceRuns = regexp.MustCompile(`\s+`)

func sanitizeLabel(value string, maxLen int) string {
	s := controlChars.ReplaceAllString(value, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func sanitizeItems(items []Item) ([]Item, error) {
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	clean := make([]Item, 0, len(items))
	for i, raw := range items {
		itemType := sanitizeLabel(raw.Type, 12)
		if itemType != TypeConsumed && itemType != TypeBurned && itemType != TypeBalance {
			return nil, fmt.Errorf("%w: invalid item type at index %d", ErrInvalidLog, i)
		}
		id := sanitizeLabel(raw.ID, 64)
		if id == "" {
			id = fmt.Sprintf("item-%d-%d", time.Now().UnixMilli(), i)
		}
		value := raw.Value
		if value > maxItemValue {
			value = maxItemValue
		}
		if value < minItemValue {
			value = minItemValue
		}
		clean = append(clean, Item{
			ID:    id,
			Type:  itemType,
			Label: sanitizeLabel(raw.Label, maxLabelChars),
			Value: value,
		})
	}
	return clean, nil
}
