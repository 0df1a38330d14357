package grading

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

type stubJudge struct {
	score  float64
	calls  []ai.WritingInput
	result *ai.WritingResult
}

func (s *stubJudge) Judge(_ context.Context, input ai.WritingInput) ai.WritingResult {
	s.calls = append(s.calls, input)
	if s.result != nil {
		return *s.result
	}
	return ai.WritingResult{Score: s.score, Feedback: "good structure", Suggestion: "Liebe Anna, ..."}
}

func mustModule(t *testing.T, id, name, level, content string) Module {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content), &decoded))
	return Module{ID: id, Name: name, Level: level, Content: decoded}
}

func mustPayload(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	return decoded
}

func sampleModules(t *testing.T) []Module {
	t.Helper()
	return []Module{
		mustModule(t, "aud1", "Listening", "1", `{
			"media": "https://cdn.example.com/track1.mp3",
			"questions": [
				{"text": "Der Zug fährt um 9 Uhr.", "correctAnswer": true},
				{"text": "Anna kommt aus Wien.", "correctAnswer": false}
			]
		}`),
		mustModule(t, "read1", "Reading", "1", `{
			"paragraphs": [
				{"paragraph": "Text A", "answer": "c"},
				{"paragraph": "Text B", "answer": "a"}
			],
			"options": ["a", "b", "c"]
		}`),
		mustModule(t, "read2", "reading", "2", `{
			"paragraphs": [
				{"questions": [
					{"question": "Wo wohnt Peter?", "answer": "In Berlin"},
					{"question": "Was macht er?", "answer": "Er arbeitet"}
				]}
			]
		}`),
		mustModule(t, "read3", "Reading", "3", `{
			"paragraphs": [
				{"questions": [{"question": "Ambiguous", "answer": "x"}]}
			]
		}`),
		mustModule(t, "read4", "Reading", "4", `{
			"paragraphs": [
				{"paragraph": "Ich warte ___ dich ___ acht ___ Uhr.", "blanks": ["auf", {"answer": "bis"}, "um"]}
			]
		}`),
		mustModule(t, "read5", "READING", "5", `{
			"paragraphs": [
				{"paragraph": "Wir gehen ___ Kino.", "blanks": ["ins"]}
			]
		}`),
		mustModule(t, "wr1", "Writing", "1", `{
			"totalPoints": 10,
			"task_a": {"questionId": "task_a", "title": "E-Mail", "body": "Schreiben Sie an Anna.", "instruction": "80 Wörter"},
			"task_b": {"questionId": "task_b", "title": "Forum", "body": "Ihre Meinung zum Thema Sport."}
		}`),
	}
}
