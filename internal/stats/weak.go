package stats

import (
	"sort"

	"github.com/lernspiel/quizade/internal/model"
)

// SelectWeakQuestions selects the lowest-accuracy questions from
// aggregates. The result keys are question prompts; callers match them
// against the active deck.
func SelectWeakQuestions(aggs []model.QuestionAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.QuestionAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Question < candidates[j].Question
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].Question] = struct{}{}
	}
	return weakSet
}

func accuracy(agg model.QuestionAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
