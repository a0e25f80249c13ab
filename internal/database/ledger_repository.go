package database

import (
	"fmt"

	"github.com/example/vocabtutor/pkg/models"
)

// LedgerRepository handles database operations for daily ledgers
type LedgerRepository struct{}

// NewLedgerRepository creates a new repository instance
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// GetDay returns the ledger for a learner and day. A day with no activity
// yields an empty ledger, never an error: the ledger is keyed by day, so a
// stale "yesterday" record simply does not match and reads as absent.
func (r *LedgerRepository) GetDay(learnerID, day string) (*models.DailyLedger, error) {
	var entries []models.IntroducedWord
	err := DB.Select(&entries, `
		SELECT item_key, translation, example_sentence FROM daily_ledger
		WHERE learner_id = $1 AND day = $2
		ORDER BY position ASC
	`, learnerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %v", err)
	}
	return &models.DailyLedger{
		LearnerID:  learnerID,
		Date:       day,
		Introduced: entries,
	}, nil
}

// RecordIntroduced appends an item to the day's ledger. Calling it again
// with the same itemKey on the same day is a no-op.
func (r *LedgerRepository) RecordIntroduced(learnerID, day string, item models.IntroducedWord) error {
	_, err := DB.Exec(`
		INSERT INTO daily_ledger (learner_id, day, position, item_key, translation, example_sentence)
		VALUES ($1, $2,
			(SELECT COUNT(*) FROM daily_ledger WHERE learner_id = $1 AND day = $2),
			$3, $4, $5)
		ON CONFLICT (learner_id, day, item_key) DO NOTHING
	`, learnerID, day, item.ItemKey, item.Translation, item.ExampleSentence)
	if err != nil {
		return fmt.Errorf("failed to record introduced word: %v", err)
	}
	return nil
}
