package plan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGeneratorGenerate(t *testing.T) {
	ctx := context.Background()
	weekStart := WeekStart(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	prof := &Profile{DailyCaloriesTarget: 1800, Cuisines: []string{"Levantine"}, Country: "Jordan"}

	t.Run("ParsesProseWrappedJSON", func(t *testing.T) {
		gen := NewGenerator(&stubTextGen{response: sevenDayResponse(weekStart)})
		days, err := gen.Generate(ctx, prof, weekStart, nil)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(days) != 7 {
			t.Fatalf("expected 7 days, got %d", len(days))
		}
		if days[0].Meals[0].Name != "150g grilled chicken\n180g rice" {
			t.Errorf("unexpected meal name: %q", days[0].Meals[0].Name)
		}
	})

	t.Run("NilGeneratorIsUnavailable", func(t *testing.T) {
		var gen *Generator
		_, err := gen.Generate(ctx, prof, weekStart, nil)
		if !errors.Is(err, ErrGeneratorUnavailable) {
			t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
		}
	})

	t.Run("MissingCredentialIsUnavailable", func(t *testing.T) {
		gen := NewGenerator(nil)
		_, err := gen.Generate(ctx, prof, weekStart, nil)
		if !errors.Is(err, ErrGeneratorUnavailable) {
			t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
		}
	})

	t.Run("TransportErrorPropagates", func(t *testing.T) {
		gen := NewGenerator(&stubTextGen{err: errors.New("connection refused")})
		if _, err := gen.Generate(ctx, prof, weekStart, nil); err == nil {
			t.Error("expected error on transport failure")
		}
	})

	t.Run("NoJSONObjectIsAnError", func(t *testing.T) {
		gen := NewGenerator(&stubTextGen{response: "Sorry, I cannot help with that."})
		if _, err := gen.Generate(ctx, prof, weekStart, nil); err == nil {
			t.Error("expected error when response has no JSON object")
		}
	})

	t.Run("EmptyDaysIsAnError", func(t *testing.T) {
		gen := NewGenerator(&stubTextGen{response: `{"days":[]}`})
		if _, err := gen.Generate(ctx, prof, weekStart, nil); err == nil {
			t.Error("expected error for empty days")
		}
	})

	t.Run("WrongDayCountIsAnError", func(t *testing.T) {
		gen := NewGenerator(&stubTextGen{response: `{"days":[{"date":"2025-03-10","meals":[{"mealType":"lunch","name":"80g pasta","calories":400}]}]}`})
		if _, err := gen.Generate(ctx, prof, weekStart, nil); err == nil {
			t.Error("expected error for a plan with fewer than 7 days")
		}
	})

	t.Run("PromptCarriesProfileAndContext", func(t *testing.T) {
		tg := &stubTextGen{response: sevenDayResponse(weekStart)}
		gen := NewGenerator(tg)
		previous := []DayPlan{{Date: "2025-03-03", Meals: []Meal{{MealType: "dinner", Name: "220g kofta", Calories: 700}}}}
		ramadanProf := &Profile{DailyCaloriesTarget: 1800, Cuisines: []string{"Levantine"}, Country: "Jordan", RamadanMode: true}

		if _, err := gen.Generate(ctx, ramadanProf, weekStart, previous); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		prompt := tg.prompts[0]
		for _, want := range []string{"1800", "Levantine", "Jordan", "Ramadan mode ON", "220g kofta", DateString(weekStart)} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})

	t.Run("PreviousWeekContextIsTruncated", func(t *testing.T) {
		tg := &stubTextGen{response: sevenDayResponse(weekStart)}
		gen := NewGenerator(tg)
		huge := []DayPlan{{Date: "2025-03-03", Meals: []Meal{{Name: strings.Repeat("shawarma ", 1000)}}}}

		if _, err := gen.Generate(ctx, prof, weekStart, huge); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(tg.prompts[0]) > maxPreviousContext+1500 {
			t.Errorf("prompt is %d bytes; previous-week context was not truncated", len(tg.prompts[0]))
		}
	})
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"BareObject", `{"a":1}`, `{"a":1}`, true},
		{"LeadingAndTrailingProse", "Sure! {\"a\":1} Hope this helps.", `{"a":1}`, true},
		{"NestedObjects", `x {"a":{"b":{"c":3}}} y`, `{"a":{"b":{"c":3}}}`, true},
		{"BracesInsideStrings", `{"name":"beef {grilled}","n":1}`, `{"name":"beef {grilled}","n":1}`, true},
		{"EscapedQuoteInString", `{"name":"say \"hi\" {","n":1}`, `{"name":"say \"hi\" {","n":1}`, true},
		{"Unbalanced", `{"a":1`, "", false},
		{"NoObject", "nothing here", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSONObject(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
