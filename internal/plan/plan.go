package plan

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Provenance values recorded on a stored weekly plan.
const (
	GeneratedByAI       = "ai"
	GeneratedByFallback = "fallback"
	GeneratedByUserEdit = "user-edit"
)

// Recognized meal types. MealType is kept as a free-form string on the wire
// so unknown values pass through untouched; these constants cover the set
// the app itself emits.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

var (
	// ErrInvalidDays is returned when a user-submitted plan update is
	// missing days or contains malformed day entries.
	ErrInvalidDays = errors.New("days array is required")

	// ErrProfileNotFound is returned when the owning user has no profile.
	ErrProfileNotFound = errors.New("profile not found")
)

// Meal is a single meal within a day. Name lists concrete food components,
// one per line.
type Meal struct {
	MealType    string  `json:"mealType"`
	Name        string  `json:"name"`
	Cuisine     string  `json:"cuisine"`
	WeightGrams float64 `json:"weightGrams"`
	Calories    int     `json:"calories"`
}

// DayPlan is the plan for a single day. TotalCalories is always recomputed
// from the meals on write; incoming values are ignored.
type DayPlan struct {
	Date          string `json:"date"`
	Meals         []Meal `json:"meals"`
	TotalCalories int    `json:"totalCalories"`
}

// WeeklyPlan is one stored plan per (user, week). WeekStart is the date of
// the Monday that begins the week, formatted YYYY-MM-DD.
type WeeklyPlan struct {
	ID          int64     `json:"id,omitempty"`
	UserID      string    `json:"userId"`
	WeekStart   string    `json:"weekStart"`
	Days        []DayPlan `json:"days"`
	GeneratedBy string    `json:"generatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Profile is the slice of a user profile the plan engine needs.
type Profile struct {
	ID                  string
	DailyCaloriesTarget int
	Cuisines            []string
	Country             string
	RamadanMode         bool
}

// ProfileProvider supplies user profiles and the user population for the
// background sweep.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// RecognizedMealType reports whether s is one of the meal types the app
// itself emits.
func RecognizedMealType(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// normalizeDays enforces the stored-plan invariants: meal types are
// lowercased, negative quantities are clamped, each day's total is the sum
// of its meal calories, and a full 7-day week gets its dates pinned to
// weekStart..weekStart+6.
func normalizeDays(weekStart time.Time, days []DayPlan) []DayPlan {
	out := make([]DayPlan, len(days))
	for i, d := range days {
		day := DayPlan{Date: d.Date, Meals: make([]Meal, len(d.Meals))}
		if len(days) == daysPerWeek {
			day.Date = DateString(weekStart.AddDate(0, 0, i))
		}
		total := 0
		for j, m := range d.Meals {
			m.MealType = strings.ToLower(strings.TrimSpace(m.MealType))
			if m.WeightGrams < 0 {
				m.WeightGrams = 0
			}
			if m.Calories < 0 {
				m.Calories = 0
			}
			total += m.Calories
			day.Meals[j] = m
		}
		day.TotalCalories = total
		out[i] = day
	}
	return out
}
