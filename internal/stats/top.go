package stats

import (
	"sort"

	"github.com/lernspiel/quizade/internal/model"
)

// TopQuestionsByFrequency returns the top N questions by total answer
// count.
func TopQuestionsByFrequency(aggs []model.QuestionAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	type item struct {
		question string
		total    int
	}
	items := make([]item, 0, len(aggs))
	for _, agg := range aggs {
		items = append(items, item{
			question: agg.Question,
			total:    agg.Correct + agg.Incorrect,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].question < items[j].question
		}
		return items[i].total > items[j].total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].question)
	}
	return out
}
