package models

// IntroducedWord is one entry in a day's ledger: an item that was handed to
// the learner as "new" on that day.
type IntroducedWord struct {
	ItemKey         string `json:"itemKey" db:"item_key"`
	Translation     string `json:"translation" db:"translation"`
	ExampleSentence string `json:"exampleSentence" db:"example_sentence"`
}

// DailyLedger records which new items were introduced to a learner on a
// single calendar day. Entries are unique by ItemKey and kept in
// introduction order. A ledger for a past day is never written again.
type DailyLedger struct {
	LearnerID  string           `json:"learner_id"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Introduced []IntroducedWord `json:"introducedItems"`
}
