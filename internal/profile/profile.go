package profile

import "time"

// Goal values accepted on a profile.
const (
	GoalBigLoss   = "big-loss"
	GoalSmallLoss = "small-loss"
	GoalMaintain  = "maintain"
)

// Activity levels accepted on a profile.
const (
	ActivityLow      = "low"
	ActivityModerate = "moderate"
	ActivityHigh     = "high"
)

// User is a stored user profile. DailyCaloriesTarget is derived from the
// body metrics on every upsert, never supplied by the caller.
type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Country             string    `json:"country"`
	Cuisines            []string  `json:"cuisines"`
	HeightCm            float64   `json:"heightCm"`
	CurrentWeightKg     float64   `json:"currentWeightKg"`
	TargetWeightKg      float64   `json:"targetWeightKg"`
	Goal                string    `json:"goal"`
	ActivityLevel       string    `json:"activityLevel"`
	DailyCaloriesTarget int       `json:"dailyCaloriesTarget"`
	RamadanMode         bool      `json:"ramadanMode"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// CalorieProfile is the derived calorie arithmetic for a set of body
// metrics.
type CalorieProfile struct {
	MaintenanceCalories int `json:"maintenanceCalories"`
	CalorieDeficit      int `json:"calorieDeficit"`
	DailyCaloriesTarget int `json:"dailyCaloriesTarget"`
}

const minimumDailyTarget = 1200

// CalculateCalorieProfile derives maintenance calories and the daily target
// from weight, height, goal, and activity level.
func CalculateCalorieProfile(currentWeightKg, heightCm float64, goal, activityLevel string) CalorieProfile {
	base := currentWeightKg*22 + heightCm*3

	activityFactor := 1.25
	switch activityLevel {
	case ActivityHigh:
		activityFactor = 1.35
	case ActivityLow:
		activityFactor = 1.15
	}
	maintenance := int(base*activityFactor + 0.5)

	deficit := 0
	switch goal {
	case GoalBigLoss:
		deficit = 600
	case GoalSmallLoss:
		deficit = 300
	}

	target := maintenance
	if goal != GoalMaintain {
		target = maintenance - deficit
		if target < minimumDailyTarget {
			target = minimumDailyTarget
		}
	}

	return CalorieProfile{
		MaintenanceCalories: maintenance,
		CalorieDeficit:      deficit,
		DailyCaloriesTarget: target,
	}
}

func normalizeGoal(goal string) string {
	switch goal {
	case GoalBigLoss, GoalSmallLoss, GoalMaintain:
		return goal
	}
	return GoalSmallLoss
}

func normalizeActivityLevel(level string) string {
	switch level {
	case ActivityLow, ActivityModerate, ActivityHigh:
		return level
	}
	return ActivityModerate
}
