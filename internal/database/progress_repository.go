package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabtutor/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ProgressRepository handles database operations for progress records
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// Get returns the progress record for a specific learner and item
func (r *ProgressRepository) Get(learnerID, itemKey string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	err := DB.Get(&rec, "SELECT * FROM progress WHERE learner_id = $1 AND item_key = $2", learnerID, itemKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %v", err)
	}
	return &rec, nil
}

// ListByLearner returns every progress record known for a learner
func (r *ProgressRepository) ListByLearner(learnerID string) ([]models.ProgressRecord, error) {
	var recs []models.ProgressRecord
	err := DB.Select(&recs, `
		SELECT * FROM progress
		WHERE learner_id = $1
		ORDER BY next_review_date ASC, item_key ASC
	`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %v", err)
	}
	return recs, nil
}

// Upsert creates or overwrites the record for (learner_id, item_key)
func (r *ProgressRepository) Upsert(rec *models.ProgressRecord) error {
	_, err := DB.Exec(`
		INSERT INTO progress (
			learner_id, item_key, translation, example_sentence,
			repetitions, interval_days, ease_factor, next_review_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (learner_id, item_key) DO UPDATE SET
			translation = EXCLUDED.translation,
			example_sentence = EXCLUDED.example_sentence,
			repetitions = EXCLUDED.repetitions,
			interval_days = EXCLUDED.interval_days,
			ease_factor = EXCLUDED.ease_factor,
			next_review_date = EXCLUDED.next_review_date
	`,
		rec.LearnerID,
		rec.ItemKey,
		rec.Translation,
		rec.ExampleSentence,
		rec.Repetitions,
		rec.IntervalDays,
		rec.EaseFactor,
		rec.NextReviewDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %v", err)
	}
	return nil
}
