package ai

import "context"

// WritingInput contains the task context and the student's answer for one writing task.
type WritingInput struct {
	Title       string
	Body        string
	Instruction string
	Answer      string
	Language    string
	MaxPoints   float64
}

// WritingResult is the structured judgement returned for a writing answer.
type WritingResult struct {
	Score      float64                `json:"score"`
	Feedback   string                 `json:"feedback"`
	Suggestion string                 `json:"suggestion"`
	Fallback   bool                   `json:"fallback,omitempty"`
	Raw        map[string]interface{} `json:"raw,omitempty"`
}

// Evaluator describes a model capable of scoring free-text writing answers. Implementations
// may fail; callers that cannot tolerate failure wrap them in a Judge.
type Evaluator interface {
	EvaluateWriting(ctx context.Context, input WritingInput) (WritingResult, error)
}

// Judge scores writing answers and never fails: the returned score is always within
// [0, input.MaxPoints].
type Judge interface {
	Judge(ctx context.Context, input WritingInput) WritingResult
}
