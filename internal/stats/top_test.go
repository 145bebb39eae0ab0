package stats

import (
	"testing"

	"github.com/lernspiel/quizade/internal/model"
)

func TestTopQuestionsByFrequency(t *testing.T) {
	aggs := []model.QuestionAggregate{
		{Question: "rare", Correct: 1, Incorrect: 0},
		{Question: "common", Correct: 10, Incorrect: 5},
		{Question: "mid", Correct: 4, Incorrect: 2},
	}
	top := TopQuestionsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(top))
	}
	if top[0] != "common" || top[1] != "mid" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestTopQuestionsByFrequencyZero(t *testing.T) {
	if top := TopQuestionsByFrequency(nil, 0); top != nil {
		t.Fatalf("expected nil, got %v", top)
	}
}
