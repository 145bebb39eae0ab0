package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 12, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got >= 80 || got < minPlotWidth {
		t.Fatalf("PlotWidthFor(80) = %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("PlotWidthFor(0) = %d, want %d", got, minPlotWidth)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("PlotWidthFor(5) = %d, want %d", got, minPlotWidth)
	}
}

func TestResample(t *testing.T) {
	up := resample([]float64{0, 10}, 5)
	if len(up) != 5 || up[0] != 0 || up[4] != 10 {
		t.Fatalf("upsample = %v", up)
	}
	down := resample([]float64{1, 1, 3, 3}, 2)
	if len(down) != 2 || down[0] != 1 || down[1] != 3 {
		t.Fatalf("downsample = %v", down)
	}
}
