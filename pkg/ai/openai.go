package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultLanguage = "German"

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lingua",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of AI writing evaluation requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lingua",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of AI writing evaluation failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI evaluator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIEvaluator implements Evaluator against the OpenAI chat completion API.
type OpenAIEvaluator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIEvaluator builds a new evaluator using the provided configuration.
func NewOpenAIEvaluator(cfg OpenAIConfig) (*OpenAIEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/noah-isme/lingua-exam-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIEvaluator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// EvaluateWriting asks the model to score the answer from 0 to input.MaxPoints.
func (e *OpenAIEvaluator) EvaluateWriting(parent context.Context, input WritingInput) (WritingResult, error) {
	ctx, span := e.tracer.Start(parent, "openai.evaluate_writing", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.Float64("writing.max_points", input.MaxPoints),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: writingSystemPrompt(input),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildWritingPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return WritingResult{}, e.fail(span, fmt.Errorf("openai evaluate writing: %w", err))
	}

	if len(resp.Choices) == 0 {
		return WritingResult{}, e.fail(span, fmt.Errorf("no choices returned from openai"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseWritingResponse(content, input.MaxPoints)
	if err != nil {
		return WritingResult{}, e.fail(span, err)
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func (e *OpenAIEvaluator) fail(span trace.Span, err error) error {
	aiFailures.WithLabelValues(e.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func writingSystemPrompt(input WritingInput) string {
	language := input.Language
	if strings.TrimSpace(language) == "" {
		language = defaultLanguage
	}
	maxPoints := formatPoints(input.MaxPoints)

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("You are a strict but fair examiner for a %s B1 writing exam.\n\n", language))
	builder.WriteString("Given the task description and a student's answer, you must:\n")
	builder.WriteString("- Evaluate ONLY how well the answer matches the task (relevance + coherence)\n")
	builder.WriteString("- Consider grammar and vocabulary, but don't be extremely harsh\n")
	builder.WriteString(fmt.Sprintf("- Score from 0 to %s, where 0 = totally irrelevant / empty and %s = excellent and fully relevant.\n\n", maxPoints, maxPoints))
	builder.WriteString("Respond ONLY as valid JSON with:\n")
	builder.WriteString(fmt.Sprintf("{\"score\": number (0 to %s), ", maxPoints))
	builder.WriteString("\"feedback\": string (2-3 sentences in English, including what else could be written), ")
	builder.WriteString("\"suggestion\": string (an improved answer, 4-5 sentences)}")
	return builder.String()
}

func buildWritingPrompt(input WritingInput) string {
	instruction := input.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = "None"
	}

	builder := strings.Builder{}
	builder.WriteString("Task title: ")
	builder.WriteString(input.Title)
	builder.WriteString("\n\nTask description:\n")
	builder.WriteString(input.Body)
	builder.WriteString("\n\nExtra instructions:\n")
	builder.WriteString(instruction)
	builder.WriteString("\n\nStudent answer:\n")
	builder.WriteString(input.Answer)
	return builder.String()
}

func parseWritingResponse(content string, maxPoints float64) (WritingResult, error) {
	type payload struct {
		Score      interface{} `json:"score"`
		Feedback   string      `json:"feedback"`
		Suggestion string      `json:"suggestion"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return WritingResult{}, fmt.Errorf("parse evaluation json: %w", err)
	}

	return WritingResult{
		Score:      Clamp(scoreValue(data.Score), maxPoints),
		Feedback:   data.Feedback,
		Suggestion: data.Suggestion,
	}, nil
}

func scoreValue(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	}
	return 0
}

// Clamp bounds score to [0, maxPoints]; NaN becomes 0.
func Clamp(score, maxPoints float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if maxPoints >= 0 && score > maxPoints {
		return maxPoints
	}
	return score
}

func formatPoints(points float64) string {
	if points == math.Trunc(points) {
		return fmt.Sprintf("%d", int64(points))
	}
	return fmt.Sprintf("%.2f", points)
}
