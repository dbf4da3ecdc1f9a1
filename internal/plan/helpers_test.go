package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"calorion/internal/database"
	"calorion/internal/logger"
)

// stubTextGen returns a canned response or error for every prompt.
type stubTextGen struct {
	response string
	err      error
	prompts  []string
}

func (s *stubTextGen) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubProfiles serves profiles from a map; missing IDs map to
// ErrProfileNotFound like the real provider.
type stubProfiles struct {
	profiles map[string]*Profile
	listErr  error
}

func (s *stubProfiles) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	return p, nil
}

func (s *stubProfiles) ListUserIDs(ctx context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.SQL)
}

func newTestService(t *testing.T, repo *Repository, profiles ProfileProvider, gen *Generator, now time.Time) *Service {
	t.Helper()
	svc := NewService(repo, profiles, gen, logger.NewNop(), time.Second)
	svc.now = func() time.Time { return now }
	return svc
}

// sevenDayResponse builds a provider response with 7 concrete days,
// wrapped in the prose a real model tends to add.
func sevenDayResponse(weekStart time.Time) string {
	days := ""
	for i := 0; i < 7; i++ {
		if i > 0 {
			days += ","
		}
		days += fmt.Sprintf(`{"date":"%s","meals":[{"mealType":"lunch","name":"150g grilled chicken\n180g rice","cuisine":"Levantine","weightGrams":330,"calories":650}],"totalCalories":9999}`,
			DateString(weekStart.AddDate(0, 0, i)))
	}
	return fmt.Sprintf("Here is your plan:\n{\"days\":[%s]}\nEnjoy!", days)
}
