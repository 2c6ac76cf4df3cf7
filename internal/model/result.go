package model

// JoinResult is the outcome of the register → join chain. It is consumed
// immediately to enter the exam view identified by QuizID.
type JoinResult struct {
	OK           bool   `json:"ok"`
	QuizID       string `json:"quiz_id,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SubmitResult is the /api/submit/:id response body.
type SubmitResult struct {
	OK    bool   `json:"ok"`
	Score int    `json:"score"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}
