package ai

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// FallbackMessage is returned as feedback and suggestion when evaluation fails.
const FallbackMessage = "Automatic evaluation failed, fallback score assigned."

var errEvaluatorMissing = errors.New("writing evaluator not configured")

var judgeFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingua",
	Subsystem: "ai",
	Name:      "judge_fallbacks_total",
	Help:      "Number of writing judgements that degraded to the fallback score",
}, []string{"reason"})

// JudgeConfig configures the fallback judge.
type JudgeConfig struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

type fallbackJudge struct {
	evaluator Evaluator
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewJudge wraps evaluator so that every failure, including a timeout, degrades to half of
// the task's points. A nil evaluator always falls back.
func NewJudge(evaluator Evaluator, cfg JudgeConfig) Judge {
	return &fallbackJudge{
		evaluator: evaluator,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger.With().Str("component", "writing_judge").Logger(),
	}
}

func (j *fallbackJudge) Judge(ctx context.Context, input WritingInput) WritingResult {
	if j.evaluator == nil {
		return j.fallback(input, errEvaluatorMissing, "unconfigured")
	}

	callCtx := ctx
	if j.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	type outcome struct {
		result WritingResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: errors.New("writing evaluator panicked")}
			}
		}()
		result, err := j.evaluator.EvaluateWriting(callCtx, input)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-callCtx.Done():
		return j.fallback(input, callCtx.Err(), "timeout")
	case out := <-done:
		if out.err != nil {
			return j.fallback(input, out.err, "error")
		}
		out.result.Score = Clamp(out.result.Score, input.MaxPoints)
		return out.result
	}
}

func (j *fallbackJudge) fallback(input WritingInput, err error, reason string) WritingResult {
	judgeFallbacks.WithLabelValues(reason).Inc()
	j.logger.Warn().Err(err).Str("reason", reason).Float64("max_points", input.MaxPoints).Msg("writing evaluation failed, using fallback score")
	return FallbackResult(input.MaxPoints)
}

// FallbackResult is the judgement assigned when evaluation is impossible: half of the
// available points, rounded.
func FallbackResult(maxPoints float64) WritingResult {
	return WritingResult{
		Score:      math.Round(maxPoints / 2),
		Feedback:   FallbackMessage,
		Suggestion: FallbackMessage,
		Fallback:   true,
	}
}
