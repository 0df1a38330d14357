package grading

import (
	"context"

	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

// Option customises an Engine.
type Option func(*Engine)

// WithDefaultWritingPoints overrides the per-task writing budget fallback.
func WithDefaultWritingPoints(points float64) Option {
	return func(e *Engine) {
		if points > 0 {
			e.defaultPoints = points
		}
	}
}

// Engine grades normalised submissions against freshly built answer keys. It holds no
// per-submission state and is safe for concurrent use when its Judge is.
type Engine struct {
	judge         ai.Judge
	defaultPoints float64
}

// NewEngine constructs a grading engine backed by judge for writing answers.
func NewEngine(judge ai.Judge, opts ...Option) *Engine {
	engine := &Engine{judge: judge, defaultPoints: DefaultWritingPoints}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// DefaultWritingPoints returns the per-task budget used when a task has none.
func (e *Engine) DefaultWritingPoints() float64 {
	return e.defaultPoints
}

// Keys builds the answer keys of a test from its modules.
func (e *Engine) Keys(modules []Module) Keys {
	return BuildKeys(modules, e.defaultPoints)
}

// Grade runs every module grader and aggregates totals. Audio and reading never suspend;
// writing tasks are judged one after another in submission order.
func (e *Engine) Grade(ctx context.Context, keys Keys, answers Answers, language string) Outcome {
	audio := ModuleSummary{}
	reading := ModuleSummary{}
	writing := ModuleSummary{}

	records := make([]Record, 0, answers.Count())
	records = append(records, GradeAudio(answers.Audio, keys.Audio, &audio)...)
	records = append(records, GradeReading(answers.Reading, keys.Reading, &reading)...)
	records = append(records, NewWritingGrader(e.judge, e.defaultPoints).Grade(ctx, answers.Writing, keys.Writing, language, &writing)...)

	outcome := Outcome{
		Records: records,
		Modules: map[string]ModuleSummary{
			ModuleAudio:   audio,
			ModuleReading: reading,
			ModuleWriting: writing,
		},
		Status: StatusPending,
	}

	for _, record := range records {
		outcome.TotalPoints += record.Points
	}
	for _, summary := range outcome.Modules {
		outcome.MaxPoints += summary.MaxPoints
	}
	if len(records) > 0 {
		outcome.Status = StatusGraded
	}

	return outcome
}
