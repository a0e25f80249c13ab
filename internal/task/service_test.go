package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtutor/internal/database"
	"github.com/example/vocabtutor/pkg/models"
)

var fixedNow = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

const learner = "user_default"

type fakeProgress struct {
	recs map[string]models.ProgressRecord // key: learner|item
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{recs: make(map[string]models.ProgressRecord)}
}

func (f *fakeProgress) key(learnerID, itemKey string) string { return learnerID + "|" + itemKey }

func (f *fakeProgress) Get(learnerID, itemKey string) (*models.ProgressRecord, error) {
	rec, ok := f.recs[f.key(learnerID, itemKey)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeProgress) ListByLearner(learnerID string) ([]models.ProgressRecord, error) {
	var out []models.ProgressRecord
	for _, rec := range f.recs {
		if rec.LearnerID == learnerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemKey < out[j].ItemKey })
	return out, nil
}

func (f *fakeProgress) Upsert(rec *models.ProgressRecord) error {
	f.recs[f.key(rec.LearnerID, rec.ItemKey)] = *rec
	return nil
}

type fakeLedger struct {
	days map[string][]models.IntroducedWord // key: learner|day
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{days: make(map[string][]models.IntroducedWord)}
}

func (f *fakeLedger) GetDay(learnerID, day string) (*models.DailyLedger, error) {
	return &models.DailyLedger{
		LearnerID:  learnerID,
		Date:       day,
		Introduced: f.days[learnerID+"|"+day],
	}, nil
}

func (f *fakeLedger) RecordIntroduced(learnerID, day string, item models.IntroducedWord) error {
	key := learnerID + "|" + day
	for _, w := range f.days[key] {
		if w.ItemKey == item.ItemKey {
			return nil
		}
	}
	f.days[key] = append(f.days[key], item)
	return nil
}

type fakeSettings struct {
	m map[string]models.Settings
}

func newFakeSettings() *fakeSettings { return &fakeSettings{m: make(map[string]models.Settings)} }

func (f *fakeSettings) Get(learnerID string) (*models.Settings, error) {
	s, ok := f.m[learnerID]
	if !ok {
		return &models.Settings{LearnerID: learnerID, DailyGoal: models.DefaultDailyGoal}, nil
	}
	return &s, nil
}

func (f *fakeSettings) Upsert(s *models.Settings) error {
	f.m[s.LearnerID] = *s
	return nil
}

type fakeWords struct {
	queue        []models.NewWord
	selectErr    error
	explainErr   error
	explanations map[string]models.Explanation
	selectCalls  [][]string
}

func (f *fakeWords) SelectNewWord(_ context.Context, exclude []string) (*models.NewWord, error) {
	cp := append([]string(nil), exclude...)
	f.selectCalls = append(f.selectCalls, cp)
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if len(f.queue) == 0 {
		return nil, errors.New("word source: no word available")
	}
	w := f.queue[0]
	f.queue = f.queue[1:]
	return &w, nil
}

func (f *fakeWords) Explain(_ context.Context, term string) (*models.Explanation, error) {
	if f.explainErr != nil {
		return nil, f.explainErr
	}
	if e, ok := f.explanations[term]; ok {
		return &e, nil
	}
	return &models.Explanation{Explanation: "a word", ExampleSentence: fmt.Sprintf("Uso %s.", term)}, nil
}

func newTestService(words *fakeWords) (*Service, *fakeProgress, *fakeLedger, *fakeSettings) {
	progress := newFakeProgress()
	ledger := newFakeLedger()
	settings := newFakeSettings()
	svc := NewService(progress, ledger, settings, words, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc, progress, ledger, settings
}

func dueRecord(itemKey string) models.ProgressRecord {
	return models.ProgressRecord{
		LearnerID:       learner,
		ItemKey:         itemKey,
		Translation:     "t:" + itemKey,
		Repetitions:     2,
		IntervalDays:    6,
		EaseFactor:      2.5,
		NextReviewDate:  "2026-08-30",
		ExampleSentence: "example for " + itemKey,
	}
}

func futureRecord(itemKey string) models.ProgressRecord {
	rec := dueRecord(itemKey)
	rec.NextReviewDate = "2026-09-10"
	return rec
}

func TestGetDailyTaskIntroducesUpToQuota(t *testing.T) {
	words := &fakeWords{queue: []models.NewWord{
		{Term: "gato", Translation: "cat"},
		{Term: "perro", Translation: "dog"},
	}}
	svc, progress, ledger, settings := newTestService(words)

	require.NoError(t, settings.Upsert(&models.Settings{LearnerID: learner, DailyGoal: 2}))
	require.NoError(t, progress.Upsert(ptr(dueRecord("hola"))))
	require.NoError(t, progress.Upsert(ptr(futureRecord("adios"))))

	taskResp, err := svc.GetDailyTask(context.Background(), learner)
	require.NoError(t, err)

	require.Len(t, taskResp.NewWords, 2)
	assert.Equal(t, "gato", taskResp.NewWords[0].Word.Term)
	assert.Equal(t, "perro", taskResp.NewWords[1].Word.Term)

	// Due today counts as due; future items don't.
	require.Len(t, taskResp.ReviewQueue, 1)
	assert.Equal(t, "hola", taskResp.ReviewQueue[0].ItemKey)
	assert.ElementsMatch(t, []string{"adios", "hola"}, taskResp.AllLearnedWords)

	// Every known word is excluded from the first request, and the first
	// introduced word is excluded from the second.
	require.Len(t, words.selectCalls, 2)
	assert.Contains(t, words.selectCalls[0], "hola")
	assert.Contains(t, words.selectCalls[0], "adios")
	assert.Contains(t, words.selectCalls[1], "gato")

	day, err := ledger.GetDay(learner, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, day.Introduced, 2)
	assert.Equal(t, "gato", day.Introduced[0].ItemKey)
}

func TestGetDailyTaskQuotaAlreadyMet(t *testing.T) {
	words := &fakeWords{queue: []models.NewWord{{Term: "gato", Translation: "cat"}}}
	svc, _, ledger, _ := newTestService(words)

	// dailyGoal defaults to 1 and one word is already in today's ledger.
	require.NoError(t, ledger.RecordIntroduced(learner, "2026-08-30", models.IntroducedWord{ItemKey: "sol", Translation: "sun"}))

	taskResp, err := svc.GetDailyTask(context.Background(), learner)
	require.NoError(t, err)

	assert.Empty(t, taskResp.NewWords)
	assert.Empty(t, words.selectCalls, "no word source call when the quota is met")
	require.Len(t, taskResp.WordsLearnedToday, 1)
	assert.Equal(t, "sol", taskResp.WordsLearnedToday[0].ItemKey)
}

func TestGetDailyTaskDegradesWhenSourceFails(t *testing.T) {
	words := &fakeWords{selectErr: errors.New("upstream unavailable")}
	svc, progress, _, _ := newTestService(words)

	require.NoError(t, progress.Upsert(ptr(dueRecord("hola"))))

	taskResp, err := svc.GetDailyTask(context.Background(), learner)
	require.NoError(t, err, "word source failure must not fail the request")

	assert.Empty(t, taskResp.NewWords)
	require.Len(t, taskResp.ReviewQueue, 1)
}

func TestGetDailyTaskStopsEarlyWhenSourceRunsDry(t *testing.T) {
	words := &fakeWords{queue: []models.NewWord{{Term: "gato", Translation: "cat"}}}
	svc, _, _, settings := newTestService(words)

	require.NoError(t, settings.Upsert(&models.Settings{LearnerID: learner, DailyGoal: 3}))

	taskResp, err := svc.GetDailyTask(context.Background(), learner)
	require.NoError(t, err)

	require.Len(t, taskResp.NewWords, 1)
	assert.Equal(t, "gato", taskResp.NewWords[0].Word.Term)
}

func TestGetDailyTaskBackfillsMissingExamples(t *testing.T) {
	words := &fakeWords{explanations: map[string]models.Explanation{
		"hola": {ExampleSentence: "¡Hola, buenos días!"},
	}}
	svc, progress, _, _ := newTestService(words)

	rec := dueRecord("hola")
	rec.ExampleSentence = ""
	require.NoError(t, progress.Upsert(&rec))

	taskResp, err := svc.GetDailyTask(context.Background(), learner)
	require.NoError(t, err)

	require.Len(t, taskResp.ReviewQueue, 1)
	assert.Equal(t, "¡Hola, buenos días!", taskResp.ReviewQueue[0].ExampleSentence)

	stored, err := progress.Get(learner, "hola")
	require.NoError(t, err)
	assert.Equal(t, "¡Hola, buenos días!", stored.ExampleSentence)
}

func TestSubmitReviewNewItemRequiresTranslation(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeWords{})

	_, err := svc.SubmitReview(context.Background(), learner, ReviewSubmission{ItemKey: "gato", Quality: 5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitReviewRejectsOutOfRangeQuality(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeWords{})

	for _, q := range []int{-1, 6} {
		_, err := svc.SubmitReview(context.Background(), learner, ReviewSubmission{ItemKey: "gato", Quality: q, Translation: "cat"})
		assert.ErrorIs(t, err, ErrValidation, "quality %d", q)
	}
}

func TestSubmitReviewCreatesRecordAndLedgerEntry(t *testing.T) {
	svc, progress, ledger, _ := newTestService(&fakeWords{})

	rec, err := svc.SubmitReview(context.Background(), learner, ReviewSubmission{
		ItemKey:     "gato",
		Quality:     5,
		Translation: "cat",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Repetitions)
	assert.Equal(t, 1, rec.IntervalDays)
	assert.Equal(t, "2026-08-31", rec.NextReviewDate)

	stored, err := progress.Get(learner, "gato")
	require.NoError(t, err)
	assert.Equal(t, *rec, *stored)

	day, err := ledger.GetDay(learner, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, day.Introduced, 1)
	assert.Equal(t, "gato", day.Introduced[0].ItemKey)
}

func TestSubmitReviewExistingItemKeepsTranslation(t *testing.T) {
	svc, progress, ledger, _ := newTestService(&fakeWords{})
	require.NoError(t, progress.Upsert(ptr(dueRecord("hola"))))

	rec, err := svc.SubmitReview(context.Background(), learner, ReviewSubmission{ItemKey: "hola", Quality: 3})
	require.NoError(t, err)

	assert.Equal(t, "t:hola", rec.Translation)
	assert.Equal(t, 0, rec.Repetitions)
	assert.Equal(t, 1, rec.IntervalDays)

	day, err := ledger.GetDay(learner, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, day.Introduced, "reviewing a known item is not an introduction")
}

func TestSubmitReviewBackfillsExampleOnce(t *testing.T) {
	svc, progress, _, _ := newTestService(&fakeWords{})

	rec := dueRecord("hola")
	rec.ExampleSentence = ""
	require.NoError(t, progress.Upsert(&rec))

	updated, err := svc.SubmitReview(context.Background(), learner, ReviewSubmission{
		ItemKey:         "hola",
		Quality:         5,
		ExampleSentence: "Hola, ¿qué tal?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿qué tal?", updated.ExampleSentence)

	// A later submission must not overwrite the stored sentence.
	updated, err = svc.SubmitReview(context.Background(), learner, ReviewSubmission{
		ItemKey:         "hola",
		Quality:         5,
		ExampleSentence: "something else",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿qué tal?", updated.ExampleSentence)
}

func TestUpdateSettingsValidatesGoal(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeWords{})

	_, err := svc.UpdateSettings(context.Background(), learner, 4)
	assert.ErrorIs(t, err, ErrValidation)

	settings, err := svc.UpdateSettings(context.Background(), learner, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, settings.DailyGoal)
}

func TestReminderDigestReusesTodaysWord(t *testing.T) {
	words := &fakeWords{}
	svc, _, ledger, _ := newTestService(words)

	require.NoError(t, ledger.RecordIntroduced(learner, "2026-08-30", models.IntroducedWord{ItemKey: "sol", Translation: "sun"}))

	digest, err := svc.GetReminderDigest(context.Background(), learner)
	require.NoError(t, err)

	assert.Equal(t, "sol", digest.NewWord.Term)
	assert.Empty(t, words.selectCalls, "reminder must reuse the word already introduced today")
}

func TestReminderDigestSelectsAndRecordsNewWord(t *testing.T) {
	words := &fakeWords{queue: []models.NewWord{{Term: "luna", Translation: "moon"}}}
	svc, progress, ledger, _ := newTestService(words)

	require.NoError(t, progress.Upsert(ptr(dueRecord("hola"))))

	digest, err := svc.GetReminderDigest(context.Background(), learner)
	require.NoError(t, err)

	assert.Equal(t, "luna", digest.NewWord.Term)
	assert.Equal(t, []string{"hola"}, digest.ReviewTerms)

	// Persisted, so a later task fetch sees the same word.
	day, err := ledger.GetDay(learner, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, day.Introduced, 1)
	assert.Equal(t, "luna", day.Introduced[0].ItemKey)
}

func ptr(rec models.ProgressRecord) *models.ProgressRecord { return &rec }
