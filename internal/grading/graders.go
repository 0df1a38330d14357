package grading

import (
	"context"
	"strings"

	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

// GradeAudio scores true/false answers. Every submitted answer is worth one point of the
// module maximum, including answers whose question ID is unknown.
func GradeAudio(answers []Answer, key map[string]bool, summary *ModuleSummary) []Record {
	records := make([]Record, 0, len(answers))
	for _, answer := range answers {
		record := Record{
			QuestionID:      answer.QuestionID,
			Module:          ModuleAudio,
			AnswerSubmitted: answer.Value,
		}
		if expected, ok := key[answer.QuestionID]; ok {
			correct := CoerceBool(answer.Value) == expected
			record.CorrectAnswer = expected
			record.IsCorrect = boolPtr(correct)
			if correct {
				record.Points = 1
			}
		}
		summary.add(record.Points, 1)
		records = append(records, record)
	}
	return records
}

// GradeReading compares normalised strings. Like audio, each submitted answer adds one
// point to the module maximum whether or not it matched a key entry.
func GradeReading(answers []Answer, key map[string]string, summary *ModuleSummary) []Record {
	records := make([]Record, 0, len(answers))
	for _, answer := range answers {
		record := Record{
			QuestionID:      answer.QuestionID,
			Module:          ModuleReading,
			AnswerSubmitted: answer.Value,
		}
		if expected, ok := key[answer.QuestionID]; ok {
			correct := NormalizeText(answer.Value) == NormalizeText(expected)
			record.CorrectAnswer = expected
			record.IsCorrect = boolPtr(correct)
			if correct {
				record.Points = 1
			}
		}
		summary.add(record.Points, 1)
		records = append(records, record)
	}
	return records
}

// WritingGrader scores writing answers through a Judge, one task at a time.
type WritingGrader struct {
	judge         ai.Judge
	defaultPoints float64
}

// NewWritingGrader builds a writing grader. defaultPoints applies to IDs missing from the key.
func NewWritingGrader(judge ai.Judge, defaultPoints float64) WritingGrader {
	if defaultPoints <= 0 {
		defaultPoints = DefaultWritingPoints
	}
	return WritingGrader{judge: judge, defaultPoints: defaultPoints}
}

// Grade judges every answer sequentially and clamps each score into [0, task max points].
func (g WritingGrader) Grade(ctx context.Context, answers []Answer, key map[string]WritingTask, language string, summary *ModuleSummary) []Record {
	records := make([]Record, 0, len(answers))
	for _, answer := range answers {
		task, ok := key[answer.QuestionID]
		if !ok {
			task = WritingTask{QuestionID: answer.QuestionID}
		}
		if task.MaxPoints <= 0 {
			task.MaxPoints = g.defaultPoints
		}

		judgement := ai.FallbackResult(task.MaxPoints)
		if g.judge != nil {
			judgement = g.judge.Judge(ctx, ai.WritingInput{
				Title:       task.Title,
				Body:        task.Body,
				Instruction: task.Instruction,
				Answer:      strings.TrimSpace(stringify(answer.Value)),
				Language:    language,
				MaxPoints:   task.MaxPoints,
			})
		}

		record := Record{
			QuestionID:      answer.QuestionID,
			Module:          ModuleWriting,
			AnswerSubmitted: answer.Value,
			Points:          ai.Clamp(judgement.Score, task.MaxPoints),
			Feedback:        judgement.Feedback,
			Suggestion:      judgement.Suggestion,
		}
		summary.add(record.Points, task.MaxPoints)
		records = append(records, record)
	}
	return records
}
