package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/dto"
	"github.com/noah-isme/lingua-exam-api/internal/grading"
	"github.com/noah-isme/lingua-exam-api/internal/models"
	"github.com/noah-isme/lingua-exam-api/internal/observability"
	"github.com/noah-isme/lingua-exam-api/internal/repository"
)

var (
	// ErrPayloadRequired indicates an empty submission body.
	ErrPayloadRequired = errors.New("submission payload is required")
	// ErrPayloadInvalid indicates a submission body that is not a JSON object.
	ErrPayloadInvalid = errors.New("submission payload must be a JSON object")
	// ErrTestIDRequired indicates a submission without a test identifier.
	ErrTestIDRequired = errors.New("test id is required")
	// ErrUserIDRequired indicates a submission without an authenticated user.
	ErrUserIDRequired = errors.New("user id is required")
	// ErrResultNotFound indicates a result that does not exist or is not visible to the viewer.
	ErrResultNotFound = errors.New("result not found")
)

const defaultExamLanguage = "German"

// Viewer identifies who is reading a result.
type Viewer struct {
	UserID string
	Role   string
}

// CanReviewAll reports whether the viewer may read results of other users.
func (v Viewer) CanReviewAll() bool {
	switch strings.ToLower(strings.TrimSpace(v.Role)) {
	case "admin", "teacher":
		return true
	default:
		return false
	}
}

// SubmissionConfig tunes the submission service.
type SubmissionConfig struct {
	DefaultLanguage string
	CacheTTL        time.Duration
}

// SubmissionService grades submissions and serves stored results.
type SubmissionService interface {
	Submit(ctx context.Context, body []byte, userID string) (dto.SubmissionSummary, error)
	Get(ctx context.Context, id string, viewer Viewer) (dto.ResultResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.SubmissionSummary, error)
}

type submissionService struct {
	content   repository.ContentRepository
	results   repository.ResultRepository
	engine    *grading.Engine
	publisher ResultPublisher
	cache     *redis.Client
	cacheTTL  time.Duration
	language  string
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSubmissionService constructs the grading orchestrator. publisher and cache may be nil.
func NewSubmissionService(content repository.ContentRepository, results repository.ResultRepository, engine *grading.Engine, publisher ResultPublisher, cache *redis.Client, cfg SubmissionConfig, logger zerolog.Logger) SubmissionService {
	language := strings.TrimSpace(cfg.DefaultLanguage)
	if language == "" {
		language = defaultExamLanguage
	}

	return &submissionService{
		content:   content,
		results:   results,
		engine:    engine,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cfg.CacheTTL,
		language:  language,
		logger:    logger.With().Str("component", "submission_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/lingua-exam-api/internal/service/submission"),
		now:       time.Now,
	}
}

// Submit grades body and stores it byte for byte as the audit copy of the submission.
func (s *submissionService) Submit(ctx context.Context, body []byte, userID string) (dto.SubmissionSummary, error) {
	payload, err := decodeSubmission(body)
	if err != nil {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionSummary{}, err
	}

	testID := grading.TestID(payload)
	if testID == "" {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionSummary{}, ErrTestIDRequired
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionSummary{}, ErrUserIDRequired
	}

	start := time.Now()
	spanCtx, span := s.tracer.Start(ctx, "grading.submit", trace.WithAttributes(
		attribute.String("submission.test_id", testID),
		attribute.String("submission.user_id", userID),
	))
	defer span.End()

	modules, language := s.loadContent(spanCtx, testID)
	keys := s.engine.Keys(modules)
	answers := grading.Normalize(payload)
	outcome := s.engine.Grade(spanCtx, keys, answers, language)
	observability.GradingDuration().Observe(time.Since(start).Seconds())

	result, err := s.buildResult(testID, userID, body, outcome)
	if err != nil {
		return dto.SubmissionSummary{}, s.fail(span, err)
	}

	if err := s.results.Create(spanCtx, &result); err != nil {
		return dto.SubmissionSummary{}, s.fail(span, fmt.Errorf("persist result: %w", err))
	}

	summary, err := dto.NewSubmissionSummary(result)
	if err != nil {
		return dto.SubmissionSummary{}, s.fail(span, err)
	}
	span.SetAttributes(
		attribute.String("submission.result_id", result.ID),
		attribute.String("submission.status", result.Status),
		attribute.Float64("submission.total_points", result.TotalPoints),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(spanCtx, summary); err != nil {
			s.logger.Warn().Err(err).Str("result_id", result.ID).Msg("failed to publish result event")
		}
	}

	observability.Submissions().WithLabelValues(result.Status).Inc()
	s.logger.Info().
		Str("result_id", result.ID).
		Str("test_id", testID).
		Str("user_id", userID).
		Str("status", result.Status).
		Int("answers", answers.Count()).
		Float64("total_points", result.TotalPoints).
		Float64("max_points", result.MaxPoints).
		Msg("submission graded")

	return summary, nil
}

// loadContent never fails: a test without content grades every answer as unknown.
func (s *submissionService) loadContent(ctx context.Context, testID string) ([]grading.Module, string) {
	language := s.language

	test, err := s.content.GetTest(ctx, testID)
	switch {
	case err == nil:
		if strings.TrimSpace(test.Language) != "" {
			language = test.Language
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn().Str("test_id", testID).Msg("submitted test has no details")
	default:
		s.logger.Warn().Err(err).Str("test_id", testID).Msg("failed to load test details")
	}

	stored, err := s.content.ListModules(ctx, testID)
	if err != nil {
		s.logger.Warn().Err(err).Str("test_id", testID).Msg("failed to load test modules, grading against empty keys")
		return nil, language
	}
	if len(stored) == 0 {
		s.logger.Warn().Str("test_id", testID).Msg("submitted test has no modules")
	}

	return toGradingModules(stored), language
}

func decodeSubmission(body []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrPayloadRequired
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	if len(payload) == 0 {
		return nil, ErrPayloadRequired
	}
	return payload, nil
}

// buildResult copies body: the caller's buffer may be reused once the request completes.
func (s *submissionService) buildResult(testID, userID string, body []byte, outcome grading.Outcome) (models.TestResult, error) {
	raw := append([]byte(nil), body...)
	records, err := json.Marshal(outcome.Records)
	if err != nil {
		return models.TestResult{}, fmt.Errorf("encode records: %w", err)
	}
	modules, err := json.Marshal(outcome.Modules)
	if err != nil {
		return models.TestResult{}, fmt.Errorf("encode module summary: %w", err)
	}

	return models.TestResult{
		TestID:           testID,
		UserID:           userID,
		SubmittedAt:      s.now().UTC(),
		RawPayload:       datatypes.JSON(raw),
		PerQuestion:      datatypes.JSON(records),
		TotalPoints:      outcome.TotalPoints,
		MaxPoints:        outcome.MaxPoints,
		PerModuleSummary: datatypes.JSON(modules),
		Status:           outcome.Status,
	}, nil
}

func (s *submissionService) fail(span trace.Span, err error) error {
	observability.Submissions().WithLabelValues("error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *submissionService) Get(ctx context.Context, id string, viewer Viewer) (dto.ResultResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.ResultResponse{}, ErrResultNotFound
	}

	response, cached := s.cachedResult(ctx, id)
	if !cached {
		result, err := s.results.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ResultResponse{}, ErrResultNotFound
			}
			return dto.ResultResponse{}, err
		}
		response, err = dto.NewResultResponse(result)
		if err != nil {
			return dto.ResultResponse{}, err
		}
		s.storeResult(ctx, response)
	}

	if !viewer.CanReviewAll() && response.UserID != strings.TrimSpace(viewer.UserID) {
		return dto.ResultResponse{}, ErrResultNotFound
	}

	return response, nil
}

func (s *submissionService) ListByUser(ctx context.Context, userID string) ([]dto.SubmissionSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	results, err := s.results.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionSummarySlice(results)
}

func resultCacheKey(id string) string {
	return "result:" + id
}

func (s *submissionService) cachedResult(ctx context.Context, id string) (dto.ResultResponse, bool) {
	if s.cache == nil {
		return dto.ResultResponse{}, false
	}

	cached, err := s.cache.Get(ctx, resultCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			observability.ResultCacheRequests().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read result cache")
			return dto.ResultResponse{}, false
		}
		observability.ResultCacheRequests().WithLabelValues("miss").Inc()
		return dto.ResultResponse{}, false
	}

	var response dto.ResultResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		observability.ResultCacheRequests().WithLabelValues("error").Inc()
		return dto.ResultResponse{}, false
	}

	observability.ResultCacheRequests().WithLabelValues("hit").Inc()
	return response, true
}

// storeResult caches the review view. Results are immutable, so entries never go stale.
func (s *submissionService) storeResult(ctx context.Context, response dto.ResultResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, resultCacheKey(response.ResultID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store result cache")
	}
}
