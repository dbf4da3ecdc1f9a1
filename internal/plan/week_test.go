package plan

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"Monday", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), "2025-03-10"},
		{"Wednesday", time.Date(2025, 3, 12, 23, 59, 59, 0, time.UTC), "2025-03-10"},
		{"Saturday", time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC), "2025-03-10"},
		{"SundayMapsBackSixDays", time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC), "2025-03-10"},
		{"YearBoundary", time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), "2025-12-29"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekStart(tc.in)
			if DateString(got) != tc.want {
				t.Errorf("WeekStart(%v) = %s, want %s", tc.in, DateString(got), tc.want)
			}
		})
	}
}

func TestWeekStartIdempotent(t *testing.T) {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		day := d.AddDate(0, 0, i)
		once := WeekStart(day)
		twice := WeekStart(once)
		if !once.Equal(twice) {
			t.Fatalf("WeekStart not idempotent for %v: %v != %v", day, once, twice)
		}
	}
}

func TestPreviousWeekStart(t *testing.T) {
	d := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	got := PreviousWeekStart(d)
	if DateString(got) != "2025-03-03" {
		t.Errorf("PreviousWeekStart = %s, want 2025-03-03", DateString(got))
	}
}
