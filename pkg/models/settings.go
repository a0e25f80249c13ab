package models

// DefaultDailyGoal is used when a learner has no stored settings.
const DefaultDailyGoal = 1

// ValidDailyGoals is the fixed set of accepted values for Settings.DailyGoal.
var ValidDailyGoals = []int{1, 2, 3, 5}

// Settings is the per-learner configuration singleton.
type Settings struct {
	LearnerID string `json:"learner_id" db:"learner_id"`
	DailyGoal int    `json:"dailyGoal" db:"daily_goal"` // new items per day
}

// IsValidDailyGoal reports whether goal is an accepted daily goal value.
func IsValidDailyGoal(goal int) bool {
	for _, g := range ValidDailyGoals {
		if g == goal {
			return true
		}
	}
	return false
}
