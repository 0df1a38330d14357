package grading

import (
	"sort"
	"strings"
)

// Answer is one submitted (questionId, value) pair.
type Answer struct {
	QuestionID string
	Value      interface{}
}

// Answers holds the normalised answer sequences of a submission, one per module.
type Answers struct {
	Audio   []Answer
	Reading []Answer
	Writing []Answer
}

// Count returns the number of answers across all modules.
func (a Answers) Count() int {
	return len(a.Audio) + len(a.Reading) + len(a.Writing)
}

var (
	testIDKeys      = []string{"testId", "test_id", "courseTestId"}
	audioSections   = []string{"audio", "listening"}
	readingSections = []string{"reading"}
	writingSections = []string{"writing"}
	readingLevels   = []string{"level1", "level2", "level4", "level5"}
	idKeys          = []string{"questionId", "id", "question_id"}
	valueKeys       = []string{"answer", "value"}
)

// TestID extracts the test identifier carried by the payload, "" when absent.
func TestID(payload map[string]interface{}) string {
	for _, key := range testIDKeys {
		if value, ok := lookupFold(payload, key); ok {
			if id := strings.TrimSpace(stringify(value)); id != "" {
				return id
			}
		}
	}
	return ""
}

// Normalize extracts per-module answer sequences from a loosely-typed submission payload.
// Module sub-trees may sit at the top level or under "answers". Missing or malformed
// sub-trees produce an empty sequence, never an error.
func Normalize(payload map[string]interface{}) Answers {
	if payload == nil {
		return Answers{}
	}
	return Answers{
		Audio:   normalizeAudio(section(payload, audioSections)),
		Reading: normalizeReading(section(payload, readingSections)),
		Writing: normalizeWriting(section(payload, writingSections)),
	}
}

func section(payload map[string]interface{}, names []string) interface{} {
	roots := []map[string]interface{}{payload}
	if nested, ok := lookupFold(payload, "answers"); ok {
		if obj, ok := nested.(map[string]interface{}); ok {
			roots = append(roots, obj)
		}
	}
	for _, root := range roots {
		for _, name := range names {
			if value, ok := lookupFold(root, name); ok && value != nil {
				return value
			}
		}
	}
	return nil
}

// normalizeReading only reads level1, level2, level4 and level5. Level 3 answers are never
// graded because no level 3 key entries exist.
func normalizeReading(tree interface{}) []Answer {
	obj, ok := tree.(map[string]interface{})
	if !ok {
		return nil
	}
	var answers []Answer
	for _, level := range readingLevels {
		value, ok := lookupFold(obj, level)
		if !ok {
			continue
		}
		if seq := parseSequence(value); len(seq) > 0 {
			answers = append(answers, seq...)
			continue
		}
		answers = append(answers, parseMapping(value, nil)...)
	}
	return answers
}

// normalizeAudio prefers an ordered sequence and falls back to a flat
// {questionId: "richtig"|"falsch"|bool} mapping.
func normalizeAudio(tree interface{}) []Answer {
	if seq := parseSequence(tree); len(seq) > 0 {
		return seq
	}
	obj, ok := tree.(map[string]interface{})
	if !ok {
		return nil
	}
	if nested, ok := lookupFold(obj, "answers"); ok {
		if seq := parseSequence(nested); len(seq) > 0 {
			return seq
		}
	}
	return parseMapping(obj, richtigFalsch)
}

// normalizeWriting drops entries with an empty answer: no attempt means no grading record.
func normalizeWriting(tree interface{}) []Answer {
	answers := parseSequence(tree)
	if len(answers) == 0 {
		if obj, ok := tree.(map[string]interface{}); ok {
			if nested, ok := lookupFold(obj, "answers"); ok {
				answers = parseSequence(nested)
			} else {
				answers = parseMapping(obj, nil)
			}
		}
	}

	out := make([]Answer, 0, len(answers))
	for _, answer := range answers {
		if answer.Value == nil {
			continue
		}
		if text, ok := answer.Value.(string); ok && strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, answer)
	}
	return out
}

func parseSequence(value interface{}) []Answer {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	answers := make([]Answer, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := firstString(obj, idKeys)
		if !ok {
			continue
		}
		answers = append(answers, Answer{QuestionID: id, Value: firstValue(obj, valueKeys)})
	}
	return answers
}

// parseMapping reads {questionId: value} in sorted key order so grading is deterministic.
func parseMapping(value interface{}, convert func(interface{}) interface{}) []Answer {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(obj))
	for id := range obj {
		if strings.TrimSpace(id) == "" || strings.EqualFold(id, "answers") {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	answers := make([]Answer, 0, len(ids))
	for _, id := range ids {
		v := obj[id]
		if convert != nil {
			v = convert(v)
		}
		answers = append(answers, Answer{QuestionID: id, Value: v})
	}
	return answers
}

func richtigFalsch(value interface{}) interface{} {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "richtig")
	default:
		return false
	}
}

func firstString(obj map[string]interface{}, keys []string) (string, bool) {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			if id := strings.TrimSpace(stringify(value)); id != "" {
				return id, true
			}
		}
	}
	return "", false
}

func firstValue(obj map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if value, ok := obj[key]; ok {
			return value
		}
	}
	return nil
}

// lookupFold finds key in obj, ignoring case when no exact match exists.
func lookupFold(obj map[string]interface{}, key string) (interface{}, bool) {
	if obj == nil {
		return nil, false
	}
	if value, ok := obj[key]; ok {
		return value, true
	}
	for candidate, value := range obj {
		if strings.EqualFold(candidate, key) {
			return value, true
		}
	}
	return nil, false
}
