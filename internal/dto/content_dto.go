package dto

import (
	"time"

	"github.com/noah-isme/lingua-exam-api/internal/models"
)

// CreateTestRequest is the payload for authoring a new test.
type CreateTestRequest struct {
	TestName string  `json:"testName" validate:"required,min=3,max=255"`
	Language string  `json:"language" validate:"omitempty,max=64"`
	Duration int     `json:"duration" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// CreateModuleRequest adds one module document to a test.
type CreateModuleRequest struct {
	Name    string                 `json:"name" validate:"required,max=64"`
	Level   string                 `json:"level" validate:"omitempty,max=32"`
	Content map[string]interface{} `json:"content" validate:"required"`
}

// TestResponse describes a test without its content.
type TestResponse struct {
	ID        string    `json:"id"`
	TestName  string    `json:"testName"`
	Language  string    `json:"language"`
	Duration  int       `json:"duration"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// ModuleResponse describes a stored module document.
type ModuleResponse struct {
	ID     string `json:"id"`
	TestID string `json:"testId"`
	Name   string `json:"name"`
	Level  string `json:"level"`
}

// QuestionView is one answerable location served to a test taker. QuestionID is omitted
// for locations that are not graded.
type QuestionView struct {
	QuestionID string `json:"questionId,omitempty"`
	Module     string `json:"module"`
	Level      int    `json:"level"`
	Paragraph  int    `json:"paragraph"`
	Index      int    `json:"index"`
	Prompt     string `json:"prompt"`
	Detail     string `json:"detail,omitempty"`
}

// ModuleContentView is a module as served to a test taker, without answers.
type ModuleContentView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Level     string         `json:"level"`
	Media     string         `json:"media,omitempty"`
	Questions []QuestionView `json:"questions"`
}

// TestContentResponse bundles a test with its answerable content.
type TestContentResponse struct {
	Test    TestResponse        `json:"test"`
	Modules []ModuleContentView `json:"modules"`
}

// NewTestResponse converts a CourseTest model into a DTO.
func NewTestResponse(model models.CourseTest) TestResponse {
	return TestResponse{
		ID:        model.ID,
		TestName:  model.TestName,
		Language:  model.Language,
		Duration:  model.Duration,
		Price:     model.Price,
		CreatedAt: model.CreatedAt,
	}
}

// NewModuleResponse converts a CourseModule model into a DTO.
func NewModuleResponse(model models.CourseModule) ModuleResponse {
	return ModuleResponse{
		ID:     model.ID,
		TestID: model.TestID,
		Name:   model.Name,
		Level:  model.Level,
	}
}
