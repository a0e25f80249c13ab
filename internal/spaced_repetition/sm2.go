package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/vocabtutor/pkg/models"
)

// Quality grades emitted by clients. The full SM-2 range 0-5 is accepted,
// but the UI only ever sends these three.
const (
	QualityForgot = 3
	QualityHard   = 4
	QualityEasy   = 5
)

const (
	// PassThreshold separates failed reviews from passed ones.
	PassThreshold = 4
	// InitialEaseFactor is the EF assigned to a record before its first grading.
	InitialEaseFactor = 2.5
	// MinEaseFactor is the floor below which EF never drops.
	MinEaseFactor = 1.3
	// MaxIntervalDays caps the spacing at one year so a long run of easy
	// reviews cannot grow the interval without bound.
	MaxIntervalDays = 365
)

// DateOf truncates t to a calendar date string in UTC. All day-boundary
// decisions in the trainer go through this one helper.
func DateOf(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// NewRecord returns a fresh, ungraded progress record for an item.
func NewRecord(learnerID, itemKey, translation string) models.ProgressRecord {
	return models.ProgressRecord{
		LearnerID:    learnerID,
		ItemKey:      itemKey,
		Translation:  translation,
		Repetitions:  0,
		IntervalDays: 1,
		EaseFactor:   InitialEaseFactor,
	}
}

// Schedule computes the next scheduling state from a prior state and a review
// quality. It is a pure transform: prior is not modified and persistence is
// the caller's responsibility. If prior is nil, a fresh record is graded.
//
// Failed reviews (quality < 4) reset repetitions and the interval but leave
// the ease factor untouched. Passed reviews advance the 1 / 6 /
// ceil(prev * EF) interval ladder, capped at MaxIntervalDays, and then
// adjust EF, floored at 1.3.
func Schedule(prior *models.ProgressRecord, quality int, today time.Time) models.ProgressRecord {
	var rec models.ProgressRecord
	if prior != nil {
		rec = *prior
	} else {
		rec = models.ProgressRecord{
			Repetitions:  0,
			IntervalDays: 1,
			EaseFactor:   InitialEaseFactor,
		}
	}

	if quality < PassThreshold {
		rec.Repetitions = 0
		rec.IntervalDays = 1
	} else {
		rec.Repetitions++
		switch rec.Repetitions {
		case 1:
			rec.IntervalDays = 1
		case 2:
			rec.IntervalDays = 6
		default:
			rec.IntervalDays = int(math.Ceil(float64(rec.IntervalDays) * rec.EaseFactor))
		}
		if rec.IntervalDays > MaxIntervalDays {
			rec.IntervalDays = MaxIntervalDays
		}

		rec.EaseFactor += 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
		if rec.EaseFactor < MinEaseFactor {
			rec.EaseFactor = MinEaseFactor
		}
	}

	rec.NextReviewDate = DateOf(today.UTC().AddDate(0, 0, rec.IntervalDays))
	return rec
}
