package plan

import (
	"math"
	"time"
)

// defaultCuisineRotation is used when the profile lists no preferred
// cuisines.
var defaultCuisineRotation = []string{"Mediterranean", "Middle Eastern"}

const defaultDailyTarget = 2000

// fallbackMeal is one slot of the offline plan template. Share is the
// fraction of the daily calorie target assigned to the slot.
type fallbackMeal struct {
	mealType    string
	name        string
	weightGrams float64
	share       float64
}

var standardTemplate = []fallbackMeal{
	{MealBreakfast, "2 eggs\n80g oats\n1 banana\n10g peanut butter", 320, 0.28},
	{MealLunch, "150g grilled chicken\n180g rice\n150g salad", 450, 0.34},
	{MealDinner, "180g fish\n200g potatoes\n120g vegetables", 380, 0.28},
	{MealSnack, "200g yogurt\n1 apple", 180, 0.10},
}

// ramadanTemplate covers the four eating windows of a fasting day: the main
// fast-breaking meal, a light sweet snack, a later second meal, and a small
// pre-dawn intake.
var ramadanTemplate = []fallbackMeal{
	{MealBreakfast, "120g grilled chicken\n180g rice\n120g salad\n2 tsp olive oil", 430, 0.40},
	{MealSnack, "3 small qatayef OR 1 piece konafa with nuts", 120, 0.15},
	{MealDinner, "2 boiled eggs\n80g foul\n60g whole wheat bread\n200g yogurt", 360, 0.35},
	{MealSnack, "1-3 dates + 2 cups water", 140, 0.10},
}

// BuildFallbackDays synthesizes a full week offline. The result is
// deterministic for a given (weekStart, profile): day i rotates through the
// profile's cuisines and every meal's calories are a fixed share of the
// daily target. This is the terminal fallback and cannot fail.
func BuildFallbackDays(weekStart time.Time, prof *Profile) []DayPlan {
	cuisines := defaultCuisineRotation
	target := defaultDailyTarget
	template := standardTemplate
	if prof != nil {
		if len(prof.Cuisines) > 0 {
			cuisines = prof.Cuisines
		}
		if prof.DailyCaloriesTarget > 0 {
			target = prof.DailyCaloriesTarget
		}
		if prof.RamadanMode {
			template = ramadanTemplate
		}
	}

	days := make([]DayPlan, daysPerWeek)
	for i := range days {
		cuisine := cuisines[i%len(cuisines)]
		meals := make([]Meal, len(template))
		total := 0
		for j, t := range template {
			calories := int(math.Round(float64(target) * t.share))
			meals[j] = Meal{
				MealType:    t.mealType,
				Name:        t.name,
				Cuisine:     cuisine,
				WeightGrams: t.weightGrams,
				Calories:    calories,
			}
			total += calories
		}
		days[i] = DayPlan{
			Date:          DateString(weekStart.AddDate(0, 0, i)),
			Meals:         meals,
			TotalCalories: total,
		}
	}
	return days
}
