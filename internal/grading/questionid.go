package grading

import (
	"fmt"
	"strconv"
	"strings"
)

// Section and array names embedded in content-scoped question identifiers.
const (
	sectionAudio    = "audio"
	arrayQuestions  = "questions"
	arrayParagraphs = "paragraphs"
	arrayBlanks     = "blanks"
)

var pathSeparators = strings.NewReplacer(".", "_", "[", "_", "]", "_", "/", "_", " ", "_")

// QuestionID maps a container and a location inside it to a stable identifier of the form
// "<container>_<path>_". Path separators (".", "[", "]", "/") become underscores.
//
// The content-serving path and the answer-key builders both go through this function; any
// other construction breaks grading of stored submissions.
func QuestionID(container, path string) string {
	normalized := pathSeparators.Replace(path)
	for strings.Contains(normalized, "__") {
		normalized = strings.ReplaceAll(normalized, "__", "_")
	}
	normalized = strings.Trim(normalized, "_")
	return container + "_" + normalized + "_"
}

// Path joins location segments with "." so that QuestionID can normalise them.
func Path(segments ...interface{}) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch v := segment.(type) {
		case string:
			parts = append(parts, v)
		case int:
			parts = append(parts, strconv.Itoa(v))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

// AudioQuestionID identifies the index-th true/false question of an audio module.
func AudioQuestionID(moduleID string, index int) string {
	return QuestionID(moduleID, Path(sectionAudio, arrayQuestions, index))
}

// ParagraphID identifies the index-th paragraph of a level 1 reading module.
func ParagraphID(moduleID string, index int) string {
	return QuestionID(moduleID, Path(arrayParagraphs, index))
}

// NestedQuestionID identifies a question nested under a paragraph (reading level 2).
func NestedQuestionID(moduleID string, paragraph, index int) string {
	return QuestionID(moduleID, Path(arrayParagraphs, paragraph, arrayQuestions, index))
}

// LevelContainer is the synthetic container used by fill-in-the-blank levels in place of the
// module document ID. It keeps blank IDs stable when the module document is recreated.
func LevelContainer(level int) string {
	return fmt.Sprintf("level_%d_p0", level)
}

// BlankID identifies the index-th blank of a reading level 4 or 5 exercise.
func BlankID(level, index int) string {
	return QuestionID(LevelContainer(level), Path(arrayBlanks, index))
}
