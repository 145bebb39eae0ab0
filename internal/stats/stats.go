// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/lernspiel/quizade/internal/model"
)

// RunMetrics computes answers-per-minute and accuracy for a run.
func RunMetrics(correct, incorrect int, durationMs int64) (apm, accuracy float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	if minutes <= 0 {
		return 0, accuracy
	}
	apm = den / minutes
	return apm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// RenderSummary prints a summary for the selected runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	var totalAPM, totalAcc float64
	finished := 0
	bestScore := 0
	for _, r := range runs {
		apm, acc := RunMetrics(r.Correct, r.Incorrect, r.DurationMs)
		totalAPM += apm
		totalAcc += acc
		if r.Outcome == model.OutcomeFinished {
			finished++
		}
		if r.Score > bestScore {
			bestScore = r.Score
		}
	}
	count := float64(len(runs))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Finished: %d (%.0f%%)\n", finished, float64(finished)/count*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Score: %d\n", bestScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Answers/min: %.2f\n", totalAPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints learning curves for accuracy and answer rate.
func RenderCurves(w io.Writer, runs []model.RunAggregate, window int) error {
	return RenderCurvesWithSize(w, runs, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, runs []model.RunAggregate, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		return nil
	}
	apms := make([]float64, len(runs))
	accs := make([]float64, len(runs))
	for i, r := range runs {
		apm, acc := RunMetrics(r.Correct, r.Incorrect, r.DurationMs)
		apms[i] = apm
		accs[i] = acc * 100
	}
	apms = MovingAverage(apms, window)
	accs = MovingAverage(accs, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Accuracy", Values: accs},
		{Name: "Answers/min", Values: apms},
	}, width, height, useColor)
}

// RenderQuestionTable prints per-question aggregates, weakest first.
func RenderQuestionTable(w io.Writer, aggs []model.QuestionAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No question stats found.")
		return err
	}
	type row struct {
		question  string
		acc       float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total)
		}
		rows = append(rows, row{
			question:  trimQuestion(agg.Question),
			acc:       acc,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].question < rows[j].question
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Question (Windowed)"); err != nil {
		return err
	}

	headers := []string{"Question", "Accuracy", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.question,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	lines := formatTable(headers, tableRows, 1, 2, 3)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderQuestionCurves prints per-question learning curves.
func RenderQuestionCurves(w io.Writer, runs []model.RunAggregate, perRun map[int64]map[string]model.QuestionAggregate, questions []string, window int) error {
	return RenderQuestionCurvesWithSize(w, runs, perRun, questions, window, 0, 10, false)
}

// RenderQuestionCurvesWithSize prints per-question learning curves sized
// to a given total width.
func RenderQuestionCurvesWithSize(w io.Writer, runs []model.RunAggregate, perRun map[int64]map[string]model.QuestionAggregate, questions []string, window, totalWidth, height int, useColor bool) error {
	if len(questions) == 0 || len(runs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Question Curves"); err != nil {
		return err
	}
	for _, q := range questions {
		accSeries := make([]float64, len(runs))
		for i, r := range runs {
			if data, ok := perRun[r.RunID]; ok {
				if agg, ok := data[q]; ok {
					total := agg.Correct + agg.Incorrect
					if total > 0 {
						accSeries[i] = float64(agg.Correct) / float64(total) * 100
					}
				}
			}
		}
		accSeries = MovingAverage(accSeries, window)
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, trimQuestion(q), []Series{
			{Name: "Accuracy", Values: accSeries},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}

// trimQuestion keeps table and plot titles readable for long prompts.
func trimQuestion(q string) string {
	const maxLen = 40
	runes := []rune(q)
	if len(runes) <= maxLen {
		return q
	}
	return string(runes[:maxLen-1]) + "…"
}
