package task

import (
	"context"

	"github.com/example/vocabtutor/pkg/models"
)

// ProgressStore is the durable mapping from (learner, item) to its
// scheduling record.
type ProgressStore interface {
	Get(learnerID, itemKey string) (*models.ProgressRecord, error)
	ListByLearner(learnerID string) ([]models.ProgressRecord, error)
	Upsert(rec *models.ProgressRecord) error
}

// LedgerStore tracks which new items were introduced on a given day.
type LedgerStore interface {
	GetDay(learnerID, day string) (*models.DailyLedger, error)
	RecordIntroduced(learnerID, day string, item models.IntroducedWord) error
}

// SettingsStore holds the per-learner settings singleton.
type SettingsStore interface {
	Get(learnerID string) (*models.Settings, error)
	Upsert(s *models.Settings) error
}

// WordSource supplies new vocabulary and tutor explanations. Both calls may
// fail; the assembler treats failure as "no more words available".
type WordSource interface {
	SelectNewWord(ctx context.Context, exclude []string) (*models.NewWord, error)
	Explain(ctx context.Context, term string) (*models.Explanation, error)
}
