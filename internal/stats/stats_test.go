package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lernspiel/quizade/internal/model"
)

func TestRunMetrics(t *testing.T) {
	apm, acc := RunMetrics(9, 3, 60000)
	if math.Abs(apm-12) > 1e-9 {
		t.Fatalf("apm = %f, want 12", apm)
	}
	if math.Abs(acc-0.75) > 1e-9 {
		t.Fatalf("accuracy = %f, want 0.75", acc)
	}
}

func TestRunMetricsZeroDuration(t *testing.T) {
	apm, acc := RunMetrics(5, 5, 0)
	if apm != 0 {
		t.Fatalf("apm = %f, want 0", apm)
	}
	if math.Abs(acc-0.5) > 1e-9 {
		t.Fatalf("accuracy = %f, want 0.5", acc)
	}
}

func TestMovingAverage(t *testing.T) {
	out := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	in := []float64{1, 5, 9}
	out := MovingAverage(in, 1)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("window 1 must copy, out[%d] = %f", i, out[i])
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	runs := []model.RunAggregate{
		{RunID: 1, EndedAt: time.Now(), Score: 10, Correct: 10, Incorrect: 2, Outcome: model.OutcomeFinished, DurationMs: 90000},
		{RunID: 2, EndedAt: time.Now(), Score: 4, Correct: 4, Incorrect: 3, Outcome: model.OutcomeGameOver, DurationMs: 60000},
	}
	if err := RenderSummary(&buf, runs); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Runs: 2") {
		t.Fatalf("missing run count: %q", out)
	}
	if !strings.Contains(out, "Finished: 1 (50%)") {
		t.Fatalf("missing finish rate: %q", out)
	}
	if !strings.Contains(out, "Best Score: 10") {
		t.Fatalf("missing best score: %q", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No runs found.") {
		t.Fatalf("missing empty message: %q", buf.String())
	}
}

func TestRenderQuestionTableSortsWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.QuestionAggregate{
		{Question: "easy", Correct: 9, Incorrect: 1},
		{Question: "hard", Correct: 2, Incorrect: 8},
	}
	if err := RenderQuestionTable(&buf, aggs); err != nil {
		t.Fatalf("RenderQuestionTable failed: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "hard") > strings.Index(out, "easy") {
		t.Fatalf("weakest question not first: %q", out)
	}
}

func TestTrimQuestion(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := trimQuestion(long)
	if len([]rune(got)) != 40 {
		t.Fatalf("trimmed to %d runes", len([]rune(got)))
	}
	if trimQuestion("short") != "short" {
		t.Fatal("short prompt must pass through")
	}
}
