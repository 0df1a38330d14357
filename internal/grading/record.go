package grading

// Result status values. StatusPartial is kept for stored results but never produced.
const (
	StatusGraded  = "graded"
	StatusPartial = "partial"
	StatusPending = "pending"
)

// Record is the grading outcome of one submitted question.
// IsCorrect is nil when the answer cannot be judged right or wrong: writing answers, and
// audio/reading answers whose question ID is not in the key.
type Record struct {
	QuestionID      string      `json:"questionId"`
	Module          string      `json:"module"`
	AnswerSubmitted interface{} `json:"answerSubmitted"`
	CorrectAnswer   interface{} `json:"correctAnswer"`
	IsCorrect       *bool       `json:"isCorrect"`
	Points          float64     `json:"points"`
	Feedback        string      `json:"feedback,omitempty"`
	Suggestion      string      `json:"suggestion,omitempty"`
}

// ModuleSummary aggregates the records of one module.
type ModuleSummary struct {
	Questions int     `json:"questions"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"maxPoints"`
}

func (s *ModuleSummary) add(points, maxPoints float64) {
	s.Questions++
	s.Points += points
	s.MaxPoints += maxPoints
}

// Outcome is the graded view of one submission.
type Outcome struct {
	Records     []Record
	Modules     map[string]ModuleSummary
	TotalPoints float64
	MaxPoints   float64
	Status      string
}

func boolPtr(v bool) *bool {
	return &v
}
