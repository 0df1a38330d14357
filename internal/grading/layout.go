package grading

// Slot is one answerable location of a module as it is presented to a test taker.
// QuestionID is empty for reading level 3, which is never graded.
type Slot struct {
	QuestionID string
	Module     string
	Level      int
	Paragraph  int
	Index      int
	Prompt     string
	Detail     string
}

// Locate lists the answerable locations of a module with the identifiers submissions must
// carry. IDs come from the same functions the answer-key builders use.
func Locate(m Module) []Slot {
	var slots []Slot
	if m.HasAudio() {
		for i, question := range m.Questions() {
			text, _ := stringField(question, "text", "question")
			slots = append(slots, Slot{
				QuestionID: AudioQuestionID(m.ID, i),
				Module:     ModuleAudio,
				Level:      m.LevelNumber(),
				Index:      i,
				Prompt:     text,
			})
		}
	}

	if m.IsReading() {
		slots = append(slots, locateReading(m)...)
	}

	for i, task := range m.WritingTasks() {
		slots = append(slots, Slot{
			QuestionID: task.QuestionID,
			Module:     ModuleWriting,
			Level:      m.LevelNumber(),
			Index:      i,
			Prompt:     task.Title,
			Detail:     task.Body,
		})
	}
	return slots
}

func locateReading(m Module) []Slot {
	level := m.LevelNumber()
	paragraphs := m.Paragraphs()
	var slots []Slot

	switch level {
	case ReadingLevel1:
		for i, paragraph := range paragraphs {
			text, _ := stringField(paragraph, "paragraph")
			slots = append(slots, Slot{QuestionID: ParagraphID(m.ID, i), Module: ModuleReading, Level: level, Paragraph: i, Index: i, Prompt: text})
		}
	case ReadingLevel2:
		if len(paragraphs) == 0 {
			return nil
		}
		for i, question := range objectList(paragraphs[0][arrayQuestions]) {
			text, _ := stringField(question, "question")
			slots = append(slots, Slot{QuestionID: NestedQuestionID(m.ID, 0, i), Module: ModuleReading, Level: level, Index: i, Prompt: text})
		}
	case ReadingLevel3:
		for p, paragraph := range paragraphs {
			for i, question := range objectList(paragraph[arrayQuestions]) {
				text, _ := stringField(question, "question")
				slots = append(slots, Slot{Module: ModuleReading, Level: level, Paragraph: p, Index: i, Prompt: text})
			}
		}
	case ReadingLevel4, ReadingLevel5:
		if len(paragraphs) == 0 {
			return nil
		}
		text, _ := stringField(paragraphs[0], "paragraph")
		blanks, _ := paragraphs[0][arrayBlanks].([]interface{})
		for i := range blanks {
			slots = append(slots, Slot{QuestionID: BlankID(level, i), Module: ModuleReading, Level: level, Index: i, Prompt: text})
		}
	}
	return slots
}
