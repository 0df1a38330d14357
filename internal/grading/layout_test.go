package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateMatchesAnswerKeys(t *testing.T) {
	modules := sampleModules(t)
	keys := BuildKeys(modules, DefaultWritingPoints)

	located := map[string]bool{}
	for _, module := range modules {
		for _, slot := range Locate(module) {
			if slot.QuestionID == "" {
				continue
			}
			located[slot.QuestionID] = true
		}
	}

	for id := range keys.Audio {
		require.True(t, located[id], "audio key %s not served", id)
	}
	for id := range keys.Reading {
		require.True(t, located[id], "reading key %s not served", id)
	}
	for id := range keys.Writing {
		require.True(t, located[id], "writing key %s not served", id)
	}
	require.Len(t, located, len(keys.Audio)+len(keys.Reading)+len(keys.Writing))
}

func TestLocateLevelThreeHasNoIdentifiers(t *testing.T) {
	module := mustModule(t, "read3", "Reading", "3", `{"paragraphs": [
		{"questions": [{"question": "Eins"}, {"question": "Zwei"}]},
		{"questions": [{"question": "Drei"}]}
	]}`)

	slots := Locate(module)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		require.Empty(t, slot.QuestionID)
		require.Equal(t, ReadingLevel3, slot.Level)
	}
	require.Equal(t, 1, slots[2].Paragraph)
	require.Equal(t, "Drei", slots[2].Prompt)
}

func TestLocateBlanksUseLevelContainer(t *testing.T) {
	module := mustModule(t, "some-module", "Reading", "level5", `{"paragraphs": [{"paragraph": "Wir gehen ___ Kino.", "blanks": ["ins", "bald"]}]}`)

	slots := Locate(module)
	require.Len(t, slots, 2)
	require.Equal(t, "level_5_p0_blanks_0_", slots[0].QuestionID)
	require.Equal(t, "level_5_p0_blanks_1_", slots[1].QuestionID)
	require.Equal(t, "Wir gehen ___ Kino.", slots[1].Prompt)
}
