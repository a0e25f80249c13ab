package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtutor/internal/spaced_repetition"
	"github.com/example/vocabtutor/internal/task"
)

// ImportConfig defines the import configuration. The expected layout is one
// item per row: term, translation, optional example sentence.
type ImportConfig struct {
	FilePath  string // Path to the Excel or CSV file
	SheetName string // Name of the sheet to import
	StartRow  int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName: "Sheet1",
		StartRow:  2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportProgress seeds progress records for a learner from an Excel or CSV
// file, for vocabularies migrated from another tool. Every imported item is
// created ungraded and due today, so it enters the review queue immediately.
func ImportProgress(learnerID string, config ImportConfig, store task.ProgressStore) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	today := spaced_repetition.DateOf(time.Now())
	result := &ImportResult{}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			result.Skipped++
			continue
		}

		term := strings.TrimSpace(row[0])
		translation := strings.TrimSpace(row[1])

		// Don't overwrite scheduling state for items the learner already has.
		if existing, err := store.Get(learnerID, term); err == nil && existing != nil {
			result.Skipped++
			continue
		}

		rec := spaced_repetition.NewRecord(learnerID, term, translation)
		if len(row) > 2 {
			rec.ExampleSentence = strings.TrimSpace(row[2])
		}
		rec.NextReviewDate = today

		if err := store.Upsert(&rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// readExcel loads rows from an Excel file
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", config.SheetName, err)
	}
	return rows, nil
}

// readCSV loads rows from a CSV file
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
