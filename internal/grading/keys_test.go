package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAudioKey(t *testing.T) {
	key := BuildAudioKey(sampleModules(t))

	require.Equal(t, map[string]bool{
		"aud1_audio_questions_0_": true,
		"aud1_audio_questions_1_": false,
	}, key)
}

func TestBuildReadingKeyDispatchesByLevel(t *testing.T) {
	key := BuildReadingKey(sampleModules(t))

	require.Equal(t, "c", key["read1_paragraphs_0_"])
	require.Equal(t, "a", key["read1_paragraphs_1_"])
	require.Equal(t, "In Berlin", key["read2_paragraphs_0_questions_0_"])
	require.Equal(t, "Er arbeitet", key["read2_paragraphs_0_questions_1_"])
	require.Equal(t, "auf", key["level_4_p0_blanks_0_"])
	require.Equal(t, "bis", key["level_4_p0_blanks_1_"])
	require.Equal(t, "um", key["level_4_p0_blanks_2_"])
	require.Equal(t, "ins", key["level_5_p0_blanks_0_"])
	require.Len(t, key, 8)
}

func TestBuildReadingKeySkipsLevelThree(t *testing.T) {
	key := BuildReadingKey(sampleModules(t))

	for id := range key {
		require.NotContains(t, id, "read3")
	}
}

func TestBuildWritingKeySplitsTotalPoints(t *testing.T) {
	key := BuildWritingKey(sampleModules(t), DefaultWritingPoints)

	require.Len(t, key, 2)
	require.Equal(t, 5.0, key["task_a"].MaxPoints)
	require.Equal(t, 5.0, key["task_b"].MaxPoints)
	require.Equal(t, "E-Mail", key["task_a"].Title)
	require.Equal(t, "80 Wörter", key["task_a"].Instruction)
}

func TestBuildWritingKeyDefaultsPerTask(t *testing.T) {
	modules := []Module{mustModule(t, "wr", "Writing", "1", `{"task_a": {"questionId": "wa", "title": "T", "body": "B"}}`)}

	key := BuildWritingKey(modules, 0)
	require.Equal(t, DefaultWritingPoints, key["wa"].MaxPoints)

	key = BuildWritingKey(modules, 8)
	require.Equal(t, 8.0, key["wa"].MaxPoints)
}

func TestBuildWritingKeyLastModuleWins(t *testing.T) {
	modules := []Module{
		mustModule(t, "wr1", "Writing", "1", `{"totalPoints": 6, "task_a": {"questionId": "first"}}`),
		mustModule(t, "wr2", "Writing", "1", `{"totalPoints": 4, "task_b": {"questionId": "second"}}`),
	}

	key := BuildWritingKey(modules, DefaultWritingPoints)
	require.Len(t, key, 1)
	require.Equal(t, 4.0, key["second"].MaxPoints)
}

func TestBuildKeysIsIdempotent(t *testing.T) {
	modules := sampleModules(t)

	first := BuildKeys(modules, DefaultWritingPoints)
	second := BuildKeys(modules, DefaultWritingPoints)
	require.Equal(t, first, second)
}

func TestBuildKeysToleratesMalformedContent(t *testing.T) {
	modules := []Module{
		{ID: "x", Name: "Reading", Level: "4", Content: map[string]interface{}{"paragraphs": "oops"}},
		{ID: "y", Name: "Reading", Level: "2", Content: map[string]interface{}{"paragraphs": []interface{}{}}},
		{ID: "z", Name: "Listening", Content: map[string]interface{}{"media": "a.mp3", "questions": []interface{}{"bad"}}},
		{ID: "w", Name: "Writing", Content: DecodeContent([]byte("{not json"))},
	}

	keys := BuildKeys(modules, DefaultWritingPoints)
	require.Empty(t, keys.Audio)
	require.Empty(t, keys.Reading)
	require.Empty(t, keys.Writing)
}

func TestModuleLevelNumber(t *testing.T) {
	require.Equal(t, 1, Module{Level: "1"}.LevelNumber())
	require.Equal(t, 4, Module{Level: "level4"}.LevelNumber())
	require.Equal(t, 5, Module{Level: "Level 5"}.LevelNumber())
	require.Equal(t, 0, Module{Level: "advanced"}.LevelNumber())
}
