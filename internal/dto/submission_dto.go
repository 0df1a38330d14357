package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/lingua-exam-api/internal/grading"
	"github.com/noah-isme/lingua-exam-api/internal/models"
)

// ModuleBreakdown reports the totals of one module of a submission.
type ModuleBreakdown struct {
	TotalQuestions int     `json:"totalQuestions"`
	MaxPoints      float64 `json:"maxPoints"`
	EarnedPoints   float64 `json:"earnedPoints"`
}

// ModuleBreakdowns groups the per-module totals.
type ModuleBreakdowns struct {
	Audio   ModuleBreakdown `json:"audio"`
	Reading ModuleBreakdown `json:"reading"`
	Writing ModuleBreakdown `json:"writing"`
}

// SubmissionSummary is returned to the test taker after submitting.
type SubmissionSummary struct {
	ResultID       string           `json:"resultId"`
	TestID         string           `json:"testId"`
	UserID         string           `json:"userId"`
	SubmittedAt    time.Time        `json:"submittedAt"`
	Status         string           `json:"status"`
	TotalQuestions int              `json:"totalQuestions"`
	TotalMarks     float64          `json:"totalMarks"`
	EarnedMarks    float64          `json:"earnedMarks"`
	PerModule      ModuleBreakdowns `json:"perModule"`
}

// ResultResponse is the full review view of a stored result.
type ResultResponse struct {
	SubmissionSummary
	PerQuestion []grading.Record `json:"perQuestion"`
	RawPayload  json.RawMessage  `json:"rawPayload,omitempty"`
}

// NewSubmissionSummary converts a stored result into its summary view. A per-module summary
// that does not decode is reported rather than shown as zero totals.
func NewSubmissionSummary(model models.TestResult) (SubmissionSummary, error) {
	modules := map[string]grading.ModuleSummary{}
	if len(model.PerModuleSummary) > 0 {
		if err := json.Unmarshal(model.PerModuleSummary, &modules); err != nil {
			return SubmissionSummary{}, fmt.Errorf("decode module summary of result %s: %w", model.ID, err)
		}
	}

	summary := SubmissionSummary{
		ResultID:    model.ID,
		TestID:      model.TestID,
		UserID:      model.UserID,
		SubmittedAt: model.SubmittedAt,
		Status:      model.Status,
		TotalMarks:  model.MaxPoints,
		EarnedMarks: model.TotalPoints,
		PerModule: ModuleBreakdowns{
			Audio:   newModuleBreakdown(modules[grading.ModuleAudio]),
			Reading: newModuleBreakdown(modules[grading.ModuleReading]),
			Writing: newModuleBreakdown(modules[grading.ModuleWriting]),
		},
	}
	for _, module := range modules {
		summary.TotalQuestions += module.Questions
	}
	return summary, nil
}

// NewSubmissionSummarySlice converts results in order.
func NewSubmissionSummarySlice(items []models.TestResult) ([]SubmissionSummary, error) {
	summaries := make([]SubmissionSummary, 0, len(items))
	for _, item := range items {
		summary, err := NewSubmissionSummary(item)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// NewResultResponse converts a stored result into its review view.
func NewResultResponse(model models.TestResult) (ResultResponse, error) {
	summary, err := NewSubmissionSummary(model)
	if err != nil {
		return ResultResponse{}, err
	}

	records := []grading.Record{}
	if len(model.PerQuestion) > 0 {
		if err := json.Unmarshal(model.PerQuestion, &records); err != nil {
			return ResultResponse{}, fmt.Errorf("decode records of result %s: %w", model.ID, err)
		}
	}

	response := ResultResponse{
		SubmissionSummary: summary,
		PerQuestion:       records,
	}
	if len(model.RawPayload) > 0 {
		response.RawPayload = json.RawMessage(model.RawPayload)
	}
	return response, nil
}

func newModuleBreakdown(summary grading.ModuleSummary) ModuleBreakdown {
	return ModuleBreakdown{
		TotalQuestions: summary.Questions,
		MaxPoints:      summary.MaxPoints,
		EarnedPoints:   summary.Points,
	}
}
