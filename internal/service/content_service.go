package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/dto"
	"github.com/noah-isme/lingua-exam-api/internal/grading"
	"github.com/noah-isme/lingua-exam-api/internal/models"
	"github.com/noah-isme/lingua-exam-api/internal/repository"
)

var (
	// ErrTestNotFound indicates the test does not exist.
	ErrTestNotFound = errors.New("test not found")
	// ErrModuleInvalid indicates a module document that cannot be graded.
	ErrModuleInvalid = errors.New("module is invalid")
)

var moduleNames = map[string]struct{}{
	"reading":   {},
	"listening": {},
	"audio":     {},
	"writing":   {},
}

// ContentService authors tests and serves their answerable content.
type ContentService interface {
	CreateTest(ctx context.Context, payload dto.CreateTestRequest) (dto.TestResponse, error)
	AddModule(ctx context.Context, testID string, payload dto.CreateModuleRequest) (dto.ModuleResponse, error)
	GetTestContent(ctx context.Context, testID string) (dto.TestContentResponse, error)
}

type contentService struct {
	repo      repository.ContentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewContentService constructs the content service.
func NewContentService(repo repository.ContentRepository, validate *validator.Validate, logger zerolog.Logger) ContentService {
	return &contentService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "content_service").Logger(),
	}
}

func (s *contentService) CreateTest(ctx context.Context, payload dto.CreateTestRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test := models.CourseTest{
		TestName: strings.TrimSpace(payload.TestName),
		Language: strings.TrimSpace(payload.Language),
		Duration: payload.Duration,
		Price:    payload.Price,
	}
	if err := s.repo.CreateTest(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.logger.Info().Str("test_id", test.ID).Msg("test created")
	return dto.NewTestResponse(test), nil
}

func (s *contentService) AddModule(ctx context.Context, testID string, payload dto.CreateModuleRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	if _, err := s.repo.GetTest(ctx, testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrTestNotFound
		}
		return dto.ModuleResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	if _, ok := moduleNames[strings.ToLower(name)]; !ok {
		return dto.ModuleResponse{}, fmt.Errorf("%w: unknown module name %q", ErrModuleInvalid, name)
	}

	view := grading.Module{Name: name, Level: payload.Level, Content: payload.Content}
	if view.IsNamed(grading.ModuleReading) {
		if level := view.LevelNumber(); level < grading.ReadingLevel1 || level > grading.ReadingLevel5 {
			return dto.ModuleResponse{}, fmt.Errorf("%w: reading level must be 1-5", ErrModuleInvalid)
		}
	}

	content, err := json.Marshal(payload.Content)
	if err != nil {
		return dto.ModuleResponse{}, fmt.Errorf("%w: %v", ErrModuleInvalid, err)
	}

	module := models.CourseModule{
		TestID:  testID,
		Name:    name,
		Level:   strings.TrimSpace(payload.Level),
		Content: datatypes.JSON(content),
	}
	if err := s.repo.CreateModule(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	s.logger.Info().Str("test_id", testID).Str("module_id", module.ID).Str("module", name).Msg("module added")
	return dto.NewModuleResponse(module), nil
}

func (s *contentService) GetTestContent(ctx context.Context, testID string) (dto.TestContentResponse, error) {
	test, err := s.repo.GetTest(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestContentResponse{}, ErrTestNotFound
		}
		return dto.TestContentResponse{}, err
	}

	stored, err := s.repo.ListModules(ctx, testID)
	if err != nil {
		return dto.TestContentResponse{}, err
	}

	views := make([]dto.ModuleContentView, 0, len(stored))
	for _, module := range toGradingModules(stored) {
		slots := grading.Locate(module)
		questions := make([]dto.QuestionView, 0, len(slots))
		for _, slot := range slots {
			questions = append(questions, dto.QuestionView{
				QuestionID: slot.QuestionID,
				Module:     slot.Module,
				Level:      slot.Level,
				Paragraph:  slot.Paragraph,
				Index:      slot.Index,
				Prompt:     s.sanitize(slot.Prompt),
				Detail:     s.sanitize(slot.Detail),
			})
		}
		views = append(views, dto.ModuleContentView{
			ID:        module.ID,
			Name:      module.Name,
			Level:     module.Level,
			Media:     module.Media(),
			Questions: questions,
		})
	}

	return dto.TestContentResponse{
		Test:    dto.NewTestResponse(test),
		Modules: views,
	}, nil
}

func (s *contentService) sanitize(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func toGradingModules(stored []models.CourseModule) []grading.Module {
	modules := make([]grading.Module, 0, len(stored))
	for _, module := range stored {
		modules = append(modules, grading.Module{
			ID:      module.ID,
			Name:    module.Name,
			Level:   module.Level,
			Content: grading.DecodeContent(module.Content),
		})
	}
	return modules
}
