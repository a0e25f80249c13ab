package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabtutor/pkg/models"
)

// SettingsRepository handles database operations for learner settings
type SettingsRepository struct{}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Get returns the learner's settings, falling back to defaults when none
// are stored.
func (r *SettingsRepository) Get(learnerID string) (*models.Settings, error) {
	var s models.Settings
	err := DB.Get(&s, "SELECT * FROM settings WHERE learner_id = $1", learnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Settings{LearnerID: learnerID, DailyGoal: models.DefaultDailyGoal}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %v", err)
	}
	return &s, nil
}

// Upsert stores the learner's settings
func (r *SettingsRepository) Upsert(s *models.Settings) error {
	_, err := DB.Exec(`
		INSERT INTO settings (learner_id, daily_goal) VALUES ($1, $2)
		ON CONFLICT (learner_id) DO UPDATE SET daily_goal = EXCLUDED.daily_goal
	`, s.LearnerID, s.DailyGoal)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %v", err)
	}
	return nil
}
