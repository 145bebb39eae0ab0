// Package content loads lesson files and normalizes question content.
package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lernspiel/quizade/internal/model"
)

// Difficulty presets accepted at the lesson-content boundary.
const (
	DifficultyEasy   = "einfach"
	DifficultyMedium = "mittel"
	DifficultyHard   = "schwer"
)

type rawLesson struct {
	LessonID    string       `json:"lessonId"`
	CourseID    string       `json:"courseId"`
	Type        string       `json:"type"`
	TargetScore int          `json:"targetScore"`
	Difficulty  string       `json:"difficulty"`
	Content     *rawContent  `json:"content"`
	Questions   []rawLegacyQ `json:"questions"`
}

type rawContent struct {
	Blocks []rawBlock `json:"blocks"`
}

type rawBlock struct {
	Question string      `json:"question"`
	Answers  []rawAnswer `json:"answers"`
}

type rawAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// rawLegacyQ is the legacy question shape. Answers may be plain strings
// or objects; correctness may be encoded by index instead of flags.
type rawLegacyQ struct {
	Prompt       string            `json:"prompt"`
	Question     string            `json:"question"`
	Answers      []json.RawMessage `json:"answers"`
	CorrectIndex *int              `json:"correctIndex"`
	Correct      *int              `json:"correct"`
}

// Normalize parses raw lesson content into a Lesson with a uniform
// question deck. Both the block shape and the legacy questions shape are
// accepted. Answers without text are dropped; blocks that end up without
// a usable correct answer never reach the deck.
func Normalize(raw []byte) (model.Lesson, error) {
	var parsed rawLesson
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return model.Lesson{}, fmt.Errorf("failed to parse lesson content: %w", err)
	}

	lesson := model.Lesson{
		LessonID:    parsed.LessonID,
		CourseID:    parsed.CourseID,
		Type:        parsed.Type,
		TargetScore: parsed.TargetScore,
		Difficulty:  normalizeDifficulty(parsed.Difficulty),
	}

	if parsed.Content != nil && len(parsed.Content.Blocks) > 0 {
		lesson.Blocks = normalizeBlocks(parsed.Content.Blocks)
	} else {
		lesson.Blocks = normalizeLegacy(parsed.Questions)
	}
	return lesson, nil
}

func normalizeBlocks(blocks []rawBlock) []model.QuestionBlock {
	out := make([]model.QuestionBlock, 0, len(blocks))
	for _, b := range blocks {
		question := strings.TrimSpace(b.Question)
		if question == "" {
			continue
		}
		answers := make([]model.Answer, 0, len(b.Answers))
		for _, a := range b.Answers {
			text := strings.TrimSpace(a.Text)
			if text == "" {
				continue
			}
			answers = append(answers, model.Answer{Text: text, Correct: a.Correct})
		}
		block := model.QuestionBlock{Question: question, Answers: answers}
		if len(answers) == 0 || !block.HasCorrect() {
			continue
		}
		out = append(out, block)
	}
	return out
}

func normalizeLegacy(questions []rawLegacyQ) []model.QuestionBlock {
	out := make([]model.QuestionBlock, 0, len(questions))
	for _, q := range questions {
		question := strings.TrimSpace(q.Prompt)
		if question == "" {
			question = strings.TrimSpace(q.Question)
		}
		if question == "" {
			continue
		}

		answers := make([]model.Answer, 0, len(q.Answers))
		flagged := false
		for _, raw := range q.Answers {
			answer, hasFlag, ok := parseLegacyAnswer(raw)
			if !ok {
				// Keep a placeholder so correctIndex still refers to
				// source positions; filtered below.
				answers = append(answers, model.Answer{})
				continue
			}
			if hasFlag {
				flagged = true
			}
			answers = append(answers, answer)
		}

		// No explicit flags anywhere: translate the index encoding.
		if !flagged {
			idx := -1
			if q.CorrectIndex != nil {
				idx = *q.CorrectIndex
			} else if q.Correct != nil {
				idx = *q.Correct
			}
			if idx >= 0 && idx < len(answers) {
				answers[idx].Correct = true
			}
		}

		usable := make([]model.Answer, 0, len(answers))
		for _, a := range answers {
			if a.Text == "" {
				continue
			}
			usable = append(usable, a)
		}
		block := model.QuestionBlock{Question: question, Answers: usable}
		if len(usable) == 0 || !block.HasCorrect() {
			continue
		}
		out = append(out, block)
	}
	return out
}

// parseLegacyAnswer accepts either a bare string or a {text, correct}
// object. The second result reports whether an explicit correctness flag
// was present.
func parseLegacyAnswer(raw json.RawMessage) (model.Answer, bool, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return model.Answer{}, false, false
		}
		return model.Answer{Text: text}, false, true
	}
	var obj struct {
		Text    string `json:"text"`
		Correct *bool  `json:"correct"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return model.Answer{}, false, false
	}
	obj.Text = strings.TrimSpace(obj.Text)
	if obj.Text == "" {
		return model.Answer{}, false, false
	}
	answer := model.Answer{Text: obj.Text}
	if obj.Correct != nil {
		answer.Correct = *obj.Correct
		return answer, true, true
	}
	return answer, false, true
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// SpeedScale maps a difficulty preset to the base simulation speed factor.
func SpeedScale(difficulty string) float64 {
	switch difficulty {
	case DifficultyEasy:
		return 0.8
	case DifficultyHard:
		return 1.3
	default:
		return 1.0
	}
}
