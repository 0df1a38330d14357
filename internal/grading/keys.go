package grading

// DefaultWritingPoints is the per-task budget used when a writing module has no totalPoints
// or a submitted task is missing from the key.
const DefaultWritingPoints = 5.0

var writingTaskFields = []string{"task_a", "task_b"}

// WritingTask is the grading information for one writing task.
type WritingTask struct {
	QuestionID  string
	Title       string
	Body        string
	Instruction string
	MaxPoints   float64
}

// Keys bundles the three answer keys of a test.
type Keys struct {
	Audio   map[string]bool
	Reading map[string]string
	Writing map[string]WritingTask
}

// BuildKeys builds every answer key from the test's modules.
func BuildKeys(modules []Module, defaultPoints float64) Keys {
	return Keys{
		Audio:   BuildAudioKey(modules),
		Reading: BuildReadingKey(modules),
		Writing: BuildWritingKey(modules, defaultPoints),
	}
}

// BuildAudioKey emits one boolean entry per question of every module carrying media and
// questions.
func BuildAudioKey(modules []Module) map[string]bool {
	key := map[string]bool{}
	for _, module := range modules {
		if !module.HasAudio() {
			continue
		}
		for i, question := range module.Questions() {
			value, ok := question["correctAnswer"]
			if !ok || value == nil {
				continue
			}
			key[AudioQuestionID(module.ID, i)] = CoerceBool(value)
		}
	}
	return key
}

// BuildReadingKey emits string entries for reading levels 1, 2, 4 and 5. Level 3 is skipped:
// its question locations do not map unambiguously onto submitted identifiers.
func BuildReadingKey(modules []Module) map[string]string {
	key := map[string]string{}
	for _, module := range modules {
		if !module.IsReading() {
			continue
		}
		paragraphs := module.Paragraphs()

		switch level := module.LevelNumber(); level {
		case ReadingLevel1:
			for i, paragraph := range paragraphs {
				if answer, ok := stringField(paragraph, "answer"); ok {
					key[ParagraphID(module.ID, i)] = answer
				}
			}
		case ReadingLevel2:
			if len(paragraphs) == 0 {
				continue
			}
			for i, question := range objectList(paragraphs[0][arrayQuestions]) {
				if answer, ok := stringField(question, "answer"); ok {
					key[NestedQuestionID(module.ID, 0, i)] = answer
				}
			}
		case ReadingLevel4, ReadingLevel5:
			if len(paragraphs) == 0 {
				continue
			}
			blanks, _ := paragraphs[0][arrayBlanks].([]interface{})
			for i, blank := range blanks {
				if answer, ok := blankAnswer(blank); ok {
					key[BlankID(level, i)] = answer
				}
			}
		}
	}
	return key
}

func blankAnswer(blank interface{}) (string, bool) {
	switch v := blank.(type) {
	case nil:
		return "", false
	case map[string]interface{}:
		return stringField(v, "answer")
	default:
		return stringify(v), true
	}
}

// BuildWritingKey maps each writing task's stored questionId to its point budget. The
// module's totalPoints is split evenly across the tasks present. Only one writing module per
// test is expected; when several exist the last one scanned wins.
func BuildWritingKey(modules []Module, defaultPoints float64) map[string]WritingTask {
	if defaultPoints <= 0 {
		defaultPoints = DefaultWritingPoints
	}

	key := map[string]WritingTask{}
	for _, module := range modules {
		tasks := module.WritingTasks()
		if len(tasks) == 0 {
			continue
		}

		perTask := defaultPoints
		if total, ok := numberField(module.Content, "totalPoints"); ok && total > 0 {
			perTask = total / float64(len(tasks))
		}

		key = make(map[string]WritingTask, len(tasks))
		for _, task := range tasks {
			task.MaxPoints = perTask
			key[task.QuestionID] = task
		}
	}
	return key
}

// WritingTasks returns the authored writing tasks that carry a questionId, in task order.
// MaxPoints is left zero; budgets are assigned by BuildWritingKey.
func (m Module) WritingTasks() []WritingTask {
	tasks := make([]WritingTask, 0, len(writingTaskFields))
	for _, field := range writingTaskFields {
		raw, ok := m.Content[field].(map[string]interface{})
		if !ok {
			continue
		}
		questionID, _ := stringField(raw, "questionId")
		if questionID == "" {
			continue
		}
		title, _ := stringField(raw, "title")
		body, _ := stringField(raw, "body")
		instruction, _ := stringField(raw, "instruction", "instructions")
		tasks = append(tasks, WritingTask{
			QuestionID:  questionID,
			Title:       title,
			Body:        body,
			Instruction: instruction,
		})
	}
	return tasks
}
