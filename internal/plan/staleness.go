package plan

import "regexp"

// Meal names like "Mediterranean meal" came from an earlier, lower-quality
// fallback template. Plans containing them are regenerated on read so old
// rows upgrade without a data migration.
var placeholderMealName = regexp.MustCompile(`(?i)\b(mediterranean|middle eastern)\s+meal\b`)

// IsStale reports whether a stored plan should be regenerated instead of
// served. User-edited plans are never stale.
func IsStale(p *WeeklyPlan) bool {
	if p == nil {
		return false
	}
	if p.GeneratedBy != GeneratedByAI && p.GeneratedBy != GeneratedByFallback {
		return false
	}
	for _, day := range p.Days {
		for _, meal := range day.Meals {
			if placeholderMealName.MatchString(meal.Name) {
				return true
			}
		}
	}
	return false
}
