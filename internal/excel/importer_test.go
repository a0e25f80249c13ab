package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtutor/internal/database"
	"github.com/example/vocabtutor/pkg/models"
)

type memStore struct {
	recs map[string]models.ProgressRecord
}

func (m *memStore) Get(learnerID, itemKey string) (*models.ProgressRecord, error) {
	rec, ok := m.recs[learnerID+"|"+itemKey]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &rec, nil
}

func (m *memStore) ListByLearner(learnerID string) ([]models.ProgressRecord, error) {
	return nil, nil
}

func (m *memStore) Upsert(rec *models.ProgressRecord) error {
	m.recs[rec.LearnerID+"|"+rec.ItemKey] = *rec
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportProgressFromCSV(t *testing.T) {
	store := &memStore{recs: make(map[string]models.ProgressRecord)}

	cfg := DefaultImportConfig()
	cfg.FilePath = writeCSV(t, "term,translation,example\ngato,cat,El gato duerme.\nperro,dog\n")

	result, err := ImportProgress("user_default", cfg, store)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	rec, err := store.Get("user_default", "gato")
	require.NoError(t, err)
	assert.Equal(t, "cat", rec.Translation)
	assert.Equal(t, "El gato duerme.", rec.ExampleSentence)
	assert.Equal(t, 0, rec.Repetitions)
	assert.NotEmpty(t, rec.NextReviewDate, "imported items are due immediately")
}

func TestImportProgressSkipsExistingAndBlankRows(t *testing.T) {
	store := &memStore{recs: make(map[string]models.ProgressRecord)}
	store.recs["user_default|gato"] = models.ProgressRecord{
		LearnerID: "user_default", ItemKey: "gato", Translation: "cat", Repetitions: 3,
	}

	cfg := DefaultImportConfig()
	cfg.FilePath = writeCSV(t, "term,translation\ngato,cat\n,missing\nluna,moon\n")

	result, err := ImportProgress("user_default", cfg, store)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)

	// Existing scheduling state must not be overwritten.
	rec, err := store.Get("user_default", "gato")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Repetitions)
}
