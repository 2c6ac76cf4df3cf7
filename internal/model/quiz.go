package model

// Option represents one selectable answer of a question.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Question represents a single quiz question as served by /api/quiz/:id.
// Multi decides whether answer collection is multi-select (checkbox
// semantics) or single-select (radio semantics).
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Image   string   `json:"image,omitempty"`
	Multi   bool     `json:"multi"`
	Options []Option `json:"options"`
}

// QuestionSet is the ordered question list of one exam attempt. It is
// fetched exactly once per attempt and never mutated afterwards.
type QuestionSet []Question

// QuizPayload is the full /api/quiz/:id response body.
type QuizPayload struct {
	Title           string      `json:"title"`
	DurationSeconds int         `json:"duration_seconds"`
	Questions       QuestionSet `json:"questions"`
	Error           string      `json:"error,omitempty"`
}

// AnswerSet maps a question id to the labels the student selected.
// Order within a question's selections is not meaningful. Every question
// of the attempt has an entry, unanswered ones an empty list.
type AnswerSet map[string][]string
