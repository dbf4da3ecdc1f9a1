package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"calorion/internal/llm"
)

// ErrGeneratorUnavailable is returned when no text generator is configured,
// which happens when the provider credential is absent.
var ErrGeneratorUnavailable = errors.New("no text generator configured")

// maxPreviousContext caps the serialized previous-week plan embedded in the
// prompt as anti-repetition context.
const maxPreviousContext = 2500

const ramadanHint = "Ramadan mode ON: include 3 meal windows (iftar after Maghrib + ~30 min, light sweet snack between meals, suhoor before Fajr). Add hydration guidance and keep foods culturally familiar."

// Generator produces a week of meals through a generative text provider.
// It makes a single best-effort call per generation; there is no retry.
type Generator struct {
	textGen llm.TextGenerator
}

// NewGenerator creates a Generator. textGen may be nil when no provider
// credential is configured; Generate then fails fast and the caller falls
// back to the offline builder.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate asks the provider for a 7-day plan. Any transport, parsing, or
// shape problem is reported as an error; the content itself never panics
// through to the caller.
func (g *Generator) Generate(ctx context.Context, prof *Profile, weekStart time.Time, previous []DayPlan) ([]DayPlan, error) {
	if g == nil || g.textGen == nil {
		return nil, ErrGeneratorUnavailable
	}

	raw, err := g.textGen.GenerateContent(ctx, buildPlanPrompt(prof, weekStart, previous))
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var parsed struct {
		Days []DayPlan `json:"days"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse generated plan: %w", err)
	}
	if len(parsed.Days) == 0 {
		return nil, fmt.Errorf("generated plan has no days")
	}
	if len(parsed.Days) != daysPerWeek {
		return nil, fmt.Errorf("generated plan has %d days, want %d", len(parsed.Days), daysPerWeek)
	}
	return parsed.Days, nil
}

func buildPlanPrompt(prof *Profile, weekStart time.Time, previous []DayPlan) string {
	target := defaultDailyTarget
	cuisines := "none"
	country := "unknown"
	hint := ""
	if prof != nil {
		if prof.DailyCaloriesTarget > 0 {
			target = prof.DailyCaloriesTarget
		}
		if len(prof.Cuisines) > 0 {
			cuisines = strings.Join(prof.Cuisines, ", ")
		}
		if prof.Country != "" {
			country = prof.Country
		}
		if prof.RamadanMode {
			hint = ramadanHint + " "
		}
	}

	prevJSON, err := json.Marshal(previous)
	if err != nil || previous == nil {
		prevJSON = []byte("[]")
	}
	if len(prevJSON) > maxPreviousContext {
		prevJSON = prevJSON[:maxPreviousContext]
	}

	return fmt.Sprintf(`Generate a 7-day food plan as STRICT JSON with shape {"days":[{"date":"YYYY-MM-DD","meals":[{"mealType":"breakfast|lunch|dinner|snack","name":"...","cuisine":"...","weightGrams":number,"calories":number}],"totalCalories":number}]}. VERY IMPORTANT: each meal must include REAL FOODS, not generic labels like 'Mediterranean meal'. In meal.name, include concrete components with line breaks, e.g. '100g grilled chicken
150g rice
150g salad'. Target calories/day around %d. User preferred cuisines: %s. User nationality/country: %s. %sAvoid repeating last week meals. Last week plan: %s Week starts: %s`,
		target, cuisines, country, hint, prevJSON, DateString(weekStart))
}

// extractJSONObject returns the first balanced top-level JSON object in s,
// tolerating prose before and after it.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
