package reminder

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// retriggerSuppression keeps a reminder from firing twice when the same
// wall-clock minute is observed more than once.
const retriggerSuppression = 50 * time.Minute

// ErrInvalidReminder is returned for malformed reminder input.
var ErrInvalidReminder = errors.New("invalid reminder")

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Reminder is a daily reminder that fires at a fixed wall-clock time.
type Reminder struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Title           string     `json:"title"`
	Time            string     `json:"time"`
	Timezone        string     `json:"timezone"`
	Enabled         bool       `json:"enabled"`
	RamadanOnly     bool       `json:"ramadanOnly"`
	TelegramChatID  string     `json:"telegramChatId"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateInput is the user-supplied portion of a new reminder.
type CreateInput struct {
	Title          string `json:"title"`
	Time           string `json:"time"`
	Timezone       string `json:"timezone"`
	Enabled        *bool  `json:"enabled"`
	RamadanOnly    bool   `json:"ramadanOnly"`
	TelegramChatID string `json:"telegramChatId"`
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if !timeOfDay.MatchString(in.Time) {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidReminder)
	}
	return nil
}

// Notifier delivers a reminder message to the user's configured channel.
type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
}
