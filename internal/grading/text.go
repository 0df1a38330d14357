package grading

import (
	"encoding/json"
	"strings"
)

// maxArrayUnwrap bounds how many nested JSON array literals NormalizeText unwraps.
const maxArrayUnwrap = 8

// NormalizeText canonicalises a reading answer for comparison: JSON array literals are
// joined with ",", then the text is trimmed, lowercased and internal whitespace runs
// collapse to one space. NormalizeText(NormalizeText(x)) == NormalizeText(x).
func NormalizeText(value interface{}) string {
	var text string
	switch v := value.(type) {
	case []interface{}:
		text = joinElements(v)
	default:
		text = stringify(v)
	}

	text = collapse(text)
	for i := 0; i < maxArrayUnwrap; i++ {
		elements, ok := parseArrayLiteral(text)
		if !ok {
			break
		}
		text = collapse(joinElements(elements))
	}
	return text
}

func collapse(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func parseArrayLiteral(text string) ([]interface{}, bool) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, false
	}
	var elements []interface{}
	if err := json.Unmarshal([]byte(text), &elements); err != nil {
		return nil, false
	}
	return elements, true
}

func joinElements(elements []interface{}) string {
	parts := make([]string, 0, len(elements))
	for _, element := range elements {
		parts = append(parts, stringify(element))
	}
	return strings.Join(parts, ",")
}

// CoerceBool converts a submitted audio answer into a boolean. "richtig" and "true" (any
// case) are true, as are non-zero numbers; everything else is false.
func CoerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		normalized := strings.ToLower(strings.TrimSpace(v))
		return normalized == "richtig" || normalized == "true"
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
