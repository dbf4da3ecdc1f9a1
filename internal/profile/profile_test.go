package profile

import "testing"

func TestCalculateCalorieProfile(t *testing.T) {
	cases := []struct {
		name            string
		weightKg        float64
		heightCm        float64
		goal            string
		activity        string
		wantMaintenance int
		wantTarget      int
	}{
		// base = 80*22 + 180*3 = 2300
		{"ModerateSmallLoss", 80, 180, GoalSmallLoss, ActivityModerate, 2875, 2575},
		{"HighActivityBigLoss", 80, 180, GoalBigLoss, ActivityHigh, 3105, 2505},
		{"LowActivityMaintain", 80, 180, GoalMaintain, ActivityLow, 2645, 2645},
		// base = 45*22 + 150*3 = 1440; 1440*1.15 = 1656; 1656-600 = 1056 -> floor
		{"FloorAt1200", 45, 150, GoalBigLoss, ActivityLow, 1656, 1200},
		{"ZeroMetricsSmallLoss", 0, 0, GoalSmallLoss, ActivityModerate, 0, 1200},
		{"ZeroMetricsMaintain", 0, 0, GoalMaintain, ActivityModerate, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateCalorieProfile(tc.weightKg, tc.heightCm, tc.goal, tc.activity)
			if got.MaintenanceCalories != tc.wantMaintenance {
				t.Errorf("maintenance = %d, want %d", got.MaintenanceCalories, tc.wantMaintenance)
			}
			if got.DailyCaloriesTarget != tc.wantTarget {
				t.Errorf("target = %d, want %d", got.DailyCaloriesTarget, tc.wantTarget)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	if got := normalizeGoal("get-huge"); got != GoalSmallLoss {
		t.Errorf("normalizeGoal = %s, want %s", got, GoalSmallLoss)
	}
	if got := normalizeGoal(GoalMaintain); got != GoalMaintain {
		t.Errorf("normalizeGoal = %s, want %s", got, GoalMaintain)
	}
	if got := normalizeActivityLevel("extreme"); got != ActivityModerate {
		t.Errorf("normalizeActivityLevel = %s, want %s", got, ActivityModerate)
	}
}
