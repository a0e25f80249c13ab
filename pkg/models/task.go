package models

// NewWord is a candidate vocabulary item selected by the word source.
type NewWord struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
}

// Explanation is the tutor payload generated for a word.
type Explanation struct {
	Explanation         string `json:"explanation"`
	ExampleSentence     string `json:"exampleSentence"`
	SentenceTranslation string `json:"sentenceTranslation"`
	ExtraTips           string `json:"extraTips"`
}

// ReviewTask is one due item projected for display.
type ReviewTask struct {
	ItemKey         string `json:"itemKey"`
	Translation     string `json:"translation"`
	ExampleSentence string `json:"exampleSentence,omitempty"`
}

// NewWordTask is one freshly introduced item together with its tutor
// explanation.
type NewWordTask struct {
	Word  NewWord      `json:"word"`
	Tutor *Explanation `json:"aiTutor,omitempty"`
}

// DailyTask is the assembled daily queue. It is transient: recomputed on
// every request, never persisted. New words are presented before reviews.
type DailyTask struct {
	NewWords          []NewWordTask    `json:"newItemTasks"`
	ReviewQueue       []ReviewTask     `json:"reviewQueue"`
	AllLearnedWords   []string         `json:"allLearnedWords"`
	WordsLearnedToday []IntroducedWord `json:"wordsLearnedToday"`
	Settings          Settings         `json:"settings"`
}
