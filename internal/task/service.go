package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/vocabtutor/internal/database"
	"github.com/example/vocabtutor/internal/spaced_repetition"
	"github.com/example/vocabtutor/pkg/models"
)

// ErrValidation marks user-visible input errors (mapped to 400 at the HTTP
// layer).
var ErrValidation = errors.New("validation error")

// ReviewSubmission is one graded review outcome sent by the client.
type ReviewSubmission struct {
	ItemKey         string `json:"itemKey"`
	Quality         int    `json:"quality"`
	Translation     string `json:"translation"`
	ExampleSentence string `json:"exampleSentence"`
}

// ReminderDigest is the material for one daily reminder: today's new word
// plus the list of due review terms.
type ReminderDigest struct {
	Date        string
	NewWord     models.NewWord
	Tutor       *models.Explanation
	ReviewTerms []string
}

// Service runs the daily task loop: assembling task queues, applying review
// outcomes through the scheduler, and keeping the daily ledger.
type Service struct {
	Progress ProgressStore
	Ledger   LedgerStore
	Settings SettingsStore
	Words    WordSource
	Logger   *slog.Logger

	// Now is replaceable in tests; defaults to time.Now.
	Now func() time.Time

	locks learnerLocks
}

// NewService creates a task service.
func NewService(progress ProgressStore, ledger LedgerStore, settings SettingsStore, words WordSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Progress: progress,
		Ledger:   ledger,
		Settings: settings,
		Words:    words,
		Logger:   logger,
		Now:      time.Now,
	}
}

// GetDailyTask assembles the learner's task queue for today: all due
// reviews, plus as many new words as the daily goal still allows. A failing
// word source degrades to reviews-only; it never fails the whole request.
func (s *Service) GetDailyTask(ctx context.Context, learnerID string) (*models.DailyTask, error) {
	mu := s.locks.lock(learnerID)
	defer mu.Unlock()

	today := spaced_repetition.DateOf(s.Now())

	records, err := s.Progress.ListByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}

	s.backfillExamples(ctx, records, today)

	reviewQueue := make([]models.ReviewTask, 0)
	allLearned := make([]string, 0, len(records))
	for _, rec := range records {
		allLearned = append(allLearned, rec.ItemKey)
		if rec.Due(today) {
			reviewQueue = append(reviewQueue, models.ReviewTask{
				ItemKey:         rec.ItemKey,
				Translation:     rec.Translation,
				ExampleSentence: rec.ExampleSentence,
			})
		}
	}

	ledger, err := s.Ledger.GetDay(learnerID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily ledger: %w", err)
	}

	settings, err := s.Settings.Get(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	quotaRemaining := settings.DailyGoal - len(ledger.Introduced)
	if quotaRemaining < 0 {
		quotaRemaining = 0
	}

	newWords := make([]models.NewWordTask, 0, quotaRemaining)
	if quotaRemaining > 0 {
		exclude := make([]string, 0, len(allLearned)+len(ledger.Introduced))
		exclude = append(exclude, allLearned...)
		for _, w := range ledger.Introduced {
			exclude = append(exclude, w.ItemKey)
		}

		for i := 0; i < quotaRemaining; i++ {
			word, err := s.Words.SelectNewWord(ctx, exclude)
			if err != nil {
				// Out of words or source unreachable: return whatever we have.
				s.Logger.Warn("word source gave no new word", "learner", learnerID, "error", err)
				break
			}

			tutor, err := s.Words.Explain(ctx, word.Term)
			if err != nil {
				s.Logger.Warn("explanation failed", "term", word.Term, "error", err)
				tutor = nil
			}

			example := ""
			if tutor != nil {
				example = tutor.ExampleSentence
			}
			if err := s.Ledger.RecordIntroduced(learnerID, today, models.IntroducedWord{
				ItemKey:         word.Term,
				Translation:     word.Translation,
				ExampleSentence: example,
			}); err != nil {
				return nil, fmt.Errorf("failed to record introduced word: %w", err)
			}

			newWords = append(newWords, models.NewWordTask{Word: *word, Tutor: tutor})
			exclude = append(exclude, word.Term)
			ledger.Introduced = append(ledger.Introduced, models.IntroducedWord{
				ItemKey:         word.Term,
				Translation:     word.Translation,
				ExampleSentence: example,
			})
		}
	}

	return &models.DailyTask{
		NewWords:          newWords,
		ReviewQueue:       reviewQueue,
		AllLearnedWords:   allLearned,
		WordsLearnedToday: ledger.Introduced,
		Settings:          *settings,
	}, nil
}

// SubmitReview applies one graded outcome: runs the scheduler, persists the
// updated record, and records first-time items in today's ledger.
func (s *Service) SubmitReview(ctx context.Context, learnerID string, sub ReviewSubmission) (*models.ProgressRecord, error) {
	if sub.ItemKey == "" {
		return nil, fmt.Errorf("%w: itemKey is required", ErrValidation)
	}
	if sub.Quality < 0 || sub.Quality > 5 {
		return nil, fmt.Errorf("%w: quality must be between 0 and 5", ErrValidation)
	}

	mu := s.locks.lock(learnerID)
	defer mu.Unlock()

	prior, err := s.Progress.Get(learnerID, sub.ItemKey)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	isNew := prior == nil
	if isNew && sub.Translation == "" {
		return nil, fmt.Errorf("%w: translation is required for a new item", ErrValidation)
	}

	now := s.Now()
	rec := spaced_repetition.Schedule(prior, sub.Quality, now)
	rec.LearnerID = learnerID
	rec.ItemKey = sub.ItemKey
	if isNew {
		rec.Translation = sub.Translation
	}
	// Self-healing of historically incomplete records.
	if rec.ExampleSentence == "" && sub.ExampleSentence != "" {
		rec.ExampleSentence = sub.ExampleSentence
	}

	if err := s.Progress.Upsert(&rec); err != nil {
		return nil, fmt.Errorf("failed to persist progress: %w", err)
	}

	if isNew {
		today := spaced_repetition.DateOf(now)
		if err := s.Ledger.RecordIntroduced(learnerID, today, models.IntroducedWord{
			ItemKey:         rec.ItemKey,
			Translation:     rec.Translation,
			ExampleSentence: rec.ExampleSentence,
		}); err != nil {
			return nil, fmt.Errorf("failed to record introduced word: %w", err)
		}
	}

	return &rec, nil
}

// UpdateSettings validates and merges the learner's daily goal.
func (s *Service) UpdateSettings(ctx context.Context, learnerID string, dailyGoal int) (*models.Settings, error) {
	if !models.IsValidDailyGoal(dailyGoal) {
		return nil, fmt.Errorf("%w: invalid daily goal value", ErrValidation)
	}

	settings, err := s.Settings.Get(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.LearnerID = learnerID
	settings.DailyGoal = dailyGoal

	if err := s.Settings.Upsert(settings); err != nil {
		return nil, fmt.Errorf("failed to persist settings: %w", err)
	}
	return settings, nil
}

// GetReminderDigest prepares the daily reminder. It reuses the word already
// introduced today if there is one; otherwise it selects a new word and
// records it in the ledger, so a later task fetch sees the same word.
func (s *Service) GetReminderDigest(ctx context.Context, learnerID string) (*ReminderDigest, error) {
	mu := s.locks.lock(learnerID)
	defer mu.Unlock()

	today := spaced_repetition.DateOf(s.Now())

	records, err := s.Progress.ListByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}

	learned := make([]string, 0, len(records))
	reviewTerms := make([]string, 0)
	for _, rec := range records {
		learned = append(learned, rec.ItemKey)
		if rec.Due(today) {
			reviewTerms = append(reviewTerms, rec.ItemKey)
		}
	}

	ledger, err := s.Ledger.GetDay(learnerID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily ledger: %w", err)
	}

	var word models.NewWord
	if n := len(ledger.Introduced); n > 0 {
		last := ledger.Introduced[n-1]
		word = models.NewWord{Term: last.ItemKey, Translation: last.Translation}
	} else {
		selected, err := s.Words.SelectNewWord(ctx, learned)
		if err != nil {
			return nil, fmt.Errorf("failed to get a new word for the reminder: %w", err)
		}
		word = *selected
		if err := s.Ledger.RecordIntroduced(learnerID, today, models.IntroducedWord{
			ItemKey:     word.Term,
			Translation: word.Translation,
		}); err != nil {
			return nil, fmt.Errorf("failed to record introduced word: %w", err)
		}
	}

	tutor, err := s.Words.Explain(ctx, word.Term)
	if err != nil {
		s.Logger.Warn("explanation failed for reminder", "term", word.Term, "error", err)
		tutor = nil
	}

	return &ReminderDigest{
		Date:        today,
		NewWord:     word,
		Tutor:       tutor,
		ReviewTerms: reviewTerms,
	}, nil
}

// backfillExamples is a one-time compatibility shim for records created
// before example sentences were stored: due records missing one get it
// generated and persisted on read. Best effort; the first failure stops the
// pass so an unreachable source costs a single call.
func (s *Service) backfillExamples(ctx context.Context, records []models.ProgressRecord, today string) {
	for i := range records {
		rec := &records[i]
		if !rec.Due(today) || rec.ExampleSentence != "" {
			continue
		}
		tutor, err := s.Words.Explain(ctx, rec.ItemKey)
		if err != nil {
			s.Logger.Debug("example backfill skipped", "term", rec.ItemKey, "error", err)
			return
		}
		if tutor.ExampleSentence == "" {
			continue
		}
		rec.ExampleSentence = tutor.ExampleSentence
		if err := s.Progress.Upsert(rec); err != nil {
			s.Logger.Warn("failed to persist backfilled example", "term", rec.ItemKey, "error", err)
			return
		}
	}
}
