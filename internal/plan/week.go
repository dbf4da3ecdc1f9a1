package plan

import "time"

const (
	dateLayout  = "2006-01-02"
	daysPerWeek = 7
)

// WeekStart returns the Monday that starts the week containing t, at
// 00:00:00 UTC. Sunday belongs to the week that started six days earlier.
// The function is idempotent: WeekStart(WeekStart(t)) == WeekStart(t).
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	back := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		back = 6
	}
	return day.AddDate(0, 0, -back)
}

// PreviousWeekStart returns the Monday of the week before the one
// containing t.
func PreviousWeekStart(t time.Time) time.Time {
	return WeekStart(t.AddDate(0, 0, -7))
}

// DateString formats t as a calendar date (YYYY-MM-DD).
func DateString(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
