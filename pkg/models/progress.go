package models

// ProgressRecord tracks a learner's progress with a single vocabulary item
// using the SM-2 algorithm. One record exists per (learner, item); it is
// overwritten in place on every review.
type ProgressRecord struct {
	LearnerID       string  `json:"learner_id" db:"learner_id"`
	ItemKey         string  `json:"itemKey" db:"item_key"`                  // the term itself, unique per learner
	Translation     string  `json:"translation" db:"translation"`
	ExampleSentence string  `json:"exampleSentence" db:"example_sentence"`  // optional, may be backfilled later
	Repetitions     int     `json:"repetitions" db:"repetitions"`           // consecutive non-forgot reviews
	IntervalDays    int     `json:"interval" db:"interval_days"`            // current spacing in days
	EaseFactor      float64 `json:"easeFactor" db:"ease_factor"`            // SM-2 EF parameter, never below 1.3
	NextReviewDate  string  `json:"reviewDate" db:"next_review_date"`       // YYYY-MM-DD, due when <= today
}

// Due reports whether the record is due for review on the given day.
// Dates are YYYY-MM-DD strings, so lexicographic order is chronological.
func (p *ProgressRecord) Due(day string) bool {
	return p.NextReviewDate <= day
}
