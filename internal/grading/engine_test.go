package grading

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

func recordByID(t *testing.T, outcome Outcome, id string) Record {
	t.Helper()
	for _, record := range outcome.Records {
		if record.QuestionID == id {
			return record
		}
	}
	t.Fatalf("no record for %s", id)
	return Record{}
}

func requireInvariants(t *testing.T, outcome Outcome) {
	t.Helper()
	var total float64
	for _, record := range outcome.Records {
		total += record.Points
	}
	var max float64
	for _, summary := range outcome.Modules {
		max += summary.MaxPoints
	}
	require.InDelta(t, total, outcome.TotalPoints, 1e-9)
	require.InDelta(t, max, outcome.MaxPoints, 1e-9)
}

func TestEngineAudioCorrectAnswer(t *testing.T) {
	engine := NewEngine(&stubJudge{})
	keys := Keys{Audio: map[string]bool{"q1": true}}
	answers := Answers{Audio: []Answer{{QuestionID: "q1", Value: true}}}

	outcome := engine.Grade(context.Background(), keys, answers, "German")

	record := recordByID(t, outcome, "q1")
	require.NotNil(t, record.IsCorrect)
	require.True(t, *record.IsCorrect)
	require.Equal(t, 1.0, record.Points)
	require.Equal(t, 1.0, outcome.Modules[ModuleAudio].MaxPoints)
	require.Equal(t, StatusGraded, outcome.Status)
	requireInvariants(t, outcome)
}

func TestEngineAudioUnknownIDCountsAsWrong(t *testing.T) {
	engine := NewEngine(&stubJudge{})
	keys := Keys{Audio: map[string]bool{"q1": false}}
	answers := Answers{Audio: []Answer{
		{QuestionID: "q1", Value: "Richtig"},
		{QuestionID: "ghost", Value: true},
	}}

	outcome := engine.Grade(context.Background(), keys, answers, "")

	wrong := recordByID(t, outcome, "q1")
	require.False(t, *wrong.IsCorrect)
	require.Zero(t, wrong.Points)

	unknown := recordByID(t, outcome, "ghost")
	require.Nil(t, unknown.IsCorrect)
	require.Nil(t, unknown.CorrectAnswer)
	require.Zero(t, unknown.Points)

	require.Equal(t, 2.0, outcome.Modules[ModuleAudio].MaxPoints)
	require.Equal(t, 2, outcome.Modules[ModuleAudio].Questions)
	requireInvariants(t, outcome)
}

func TestEngineReadingBlankArrayLiteral(t *testing.T) {
	engine := NewEngine(&stubJudge{})
	keys := BuildKeys(sampleModules(t), DefaultWritingPoints)
	answers := Answers{Reading: []Answer{{QuestionID: "level_4_p0_blanks_2_", Value: `["um"]`}}}

	outcome := engine.Grade(context.Background(), keys, answers, "German")

	record := recordByID(t, outcome, "level_4_p0_blanks_2_")
	require.True(t, *record.IsCorrect)
	require.Equal(t, 1.0, record.Points)
	require.Equal(t, "um", record.CorrectAnswer)
	requireInvariants(t, outcome)
}

func TestEngineWritingClampsScore(t *testing.T) {
	judge := &stubJudge{score: 7}
	engine := NewEngine(judge)
	keys := Keys{Writing: map[string]WritingTask{"task_a": {QuestionID: "task_a", Title: "E-Mail", Body: "Schreiben Sie.", MaxPoints: 5}}}
	answers := Answers{Writing: []Answer{{QuestionID: "task_a", Value: "Liebe Anna, vielen Dank."}}}

	outcome := engine.Grade(context.Background(), keys, answers, "German")

	record := recordByID(t, outcome, "task_a")
	require.Nil(t, record.IsCorrect)
	require.Equal(t, 5.0, record.Points)
	require.Equal(t, "good structure", record.Feedback)
	require.Equal(t, "Liebe Anna, ...", record.Suggestion)
	require.Equal(t, 5.0, outcome.Modules[ModuleWriting].MaxPoints)

	require.Len(t, judge.calls, 1)
	require.Equal(t, "E-Mail", judge.calls[0].Title)
	require.Equal(t, "German", judge.calls[0].Language)
	require.Equal(t, 5.0, judge.calls[0].MaxPoints)
	requireInvariants(t, outcome)
}

func TestEngineWritingNegativeScoreAndUnknownTask(t *testing.T) {
	engine := NewEngine(&stubJudge{score: -3}, WithDefaultWritingPoints(4))
	answers := Answers{Writing: []Answer{{QuestionID: "unknown", Value: "text"}}}

	outcome := engine.Grade(context.Background(), Keys{}, answers, "German")

	record := recordByID(t, outcome, "unknown")
	require.Zero(t, record.Points)
	require.Equal(t, 4.0, outcome.Modules[ModuleWriting].MaxPoints)
}

func TestEngineWritingFallbackJudgement(t *testing.T) {
	fallback := ai.FallbackResult(5)
	engine := NewEngine(&stubJudge{result: &fallback})
	keys := Keys{Writing: map[string]WritingTask{"task_a": {QuestionID: "task_a", MaxPoints: 5}}}
	answers := Answers{Writing: []Answer{{QuestionID: "task_a", Value: "text"}}}

	outcome := engine.Grade(context.Background(), keys, answers, "German")

	record := recordByID(t, outcome, "task_a")
	require.Equal(t, 3.0, record.Points)
	require.Equal(t, ai.FallbackMessage, record.Feedback)
}

func TestEngineLevelThreeAnswersIgnored(t *testing.T) {
	engine := NewEngine(&stubJudge{})
	modules := sampleModules(t)
	payload := mustPayload(t, `{"testId": "t1", "reading": {"level3": {"read3_paragraphs_0_questions_0_": "x"}}}`)

	outcome := engine.Grade(context.Background(), engine.Keys(modules), Normalize(payload), "German")

	require.Empty(t, outcome.Records)
	require.Zero(t, outcome.MaxPoints)
	require.Equal(t, StatusPending, outcome.Status)
}

func TestEngineEmptySubmissionIsPending(t *testing.T) {
	engine := NewEngine(nil)

	outcome := engine.Grade(context.Background(), Keys{}, Answers{}, "")

	require.Equal(t, StatusPending, outcome.Status)
	require.Len(t, outcome.Modules, 3)
	for _, summary := range outcome.Modules {
		require.Zero(t, summary.MaxPoints)
		require.Zero(t, summary.Questions)
	}
}

func TestEngineFullSubmission(t *testing.T) {
	judge := &stubJudge{score: 3.5}
	engine := NewEngine(judge)
	modules := sampleModules(t)
	payload := mustPayload(t, `{
		"testId": "t1",
		"audio": [{"questionId": "aud1_audio_questions_0_", "answer": true}, {"questionId": "aud1_audio_questions_1_", "answer": true}],
		"reading": {
			"level1": {"read1_paragraphs_0_": " C ", "read1_paragraphs_1_": "b"},
			"level2": {"read2_paragraphs_0_questions_0_": "in   berlin"},
			"level4": [{"id": "level_4_p0_blanks_0_", "value": "auf"}]
		},
		"writing": [{"questionId": "task_a", "answer": "Liebe Anna ..."}, {"questionId": "task_b", "answer": ""}]
	}`)

	outcome := engine.Grade(context.Background(), engine.Keys(modules), Normalize(payload), "German")

	require.Equal(t, StatusGraded, outcome.Status)
	require.Len(t, outcome.Records, 7)
	require.Equal(t, ModuleSummary{Questions: 2, Points: 1, MaxPoints: 2}, outcome.Modules[ModuleAudio])
	require.Equal(t, ModuleSummary{Questions: 4, Points: 3, MaxPoints: 4}, outcome.Modules[ModuleReading])
	require.Equal(t, ModuleSummary{Questions: 1, Points: 3.5, MaxPoints: 5}, outcome.Modules[ModuleWriting])
	require.InDelta(t, 7.5, outcome.TotalPoints, 1e-9)
	require.InDelta(t, 11.0, outcome.MaxPoints, 1e-9)
	requireInvariants(t, outcome)
}

func TestEngineIsDeterministic(t *testing.T) {
	modules := sampleModules(t)
	payload := mustPayload(t, `{"reading": {"level1": {"read1_paragraphs_1_": "a", "read1_paragraphs_0_": "c"}}, "audio": {"aud1_audio_questions_1_": "falsch", "aud1_audio_questions_0_": "richtig"}}`)
	engine := NewEngine(&stubJudge{})

	first := engine.Grade(context.Background(), engine.Keys(modules), Normalize(payload), "German")
	second := engine.Grade(context.Background(), engine.Keys(modules), Normalize(payload), "German")
	require.Equal(t, first, second)
	require.InDelta(t, 4.0, first.TotalPoints, 1e-9)
}
