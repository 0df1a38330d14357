package grading

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Module kinds used as keys of the per-module summary.
const (
	ModuleAudio   = "audio"
	ModuleReading = "reading"
	ModuleWriting = "writing"
)

// Reading levels. Level 3 exists in authored content but is never graded.
const (
	ReadingLevel1 = 1
	ReadingLevel2 = 2
	ReadingLevel3 = 3
	ReadingLevel4 = 4
	ReadingLevel5 = 5
)

// Module is a read-only view of one stored module document.
type Module struct {
	ID      string
	Name    string
	Level   string
	Content map[string]interface{}
}

// DecodeContent unmarshals stored module content. Malformed content yields an empty map.
func DecodeContent(raw []byte) map[string]interface{} {
	content := map[string]interface{}{}
	if len(raw) == 0 {
		return content
	}
	if err := json.Unmarshal(raw, &content); err != nil || content == nil {
		return map[string]interface{}{}
	}
	return content
}

// IsNamed reports whether the module's registry name matches name, ignoring case.
func (m Module) IsNamed(name string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Name), name)
}

// LevelNumber parses the stored level ("1", "level1", "Level 4") into a number, 0 if unknown.
func (m Module) LevelNumber() int {
	return parseLevel(m.Level)
}

func parseLevel(raw string) int {
	level := strings.ToLower(strings.TrimSpace(raw))
	level = strings.TrimPrefix(level, "level")
	level = strings.TrimLeft(level, " _-")
	n, err := strconv.Atoi(level)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// HasAudio reports whether the content carries a media reference and a questions list.
func (m Module) HasAudio() bool {
	if _, ok := m.Content["media"]; !ok {
		return false
	}
	_, ok := m.Content[arrayQuestions].([]interface{})
	return ok
}

// Media returns the audio reference of the module, if any.
func (m Module) Media() string {
	media, _ := stringField(m.Content, "media")
	return media
}

// Questions returns the audio questions list.
func (m Module) Questions() []map[string]interface{} {
	return objectList(m.Content[arrayQuestions])
}

// Paragraphs returns the reading paragraphs list.
func (m Module) Paragraphs() []map[string]interface{} {
	return objectList(m.Content[arrayParagraphs])
}

// IsReading reports whether the module is a reading module. Unnamed modules qualify by shape.
func (m Module) IsReading() bool {
	if _, ok := m.Content[arrayParagraphs].([]interface{}); !ok {
		return false
	}
	return strings.TrimSpace(m.Name) == "" || m.IsNamed(ModuleReading)
}

func objectList(value interface{}) []map[string]interface{} {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			obj = map[string]interface{}{}
		}
		out = append(out, obj)
	}
	return out
}

func stringField(obj map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := obj[key]
		if !ok || value == nil {
			continue
		}
		return stringify(value), true
	}
	return "", false
}

func numberField(obj map[string]interface{}, key string) (float64, bool) {
	switch v := obj[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
