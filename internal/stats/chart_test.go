package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotPerSeriesScale(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
		{Name: "empty"},
	}, PlotOptions{Title: "Test Plot", Width: 10, Height: 4})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", scaleNote, "A: min=1.00 max=3.00", "B: min=1.00 max=4.00", "Legend:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "empty") {
		t.Fatalf("empty series should be skipped")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if want := 1 + 1 + 2 + 4 + 1; len(lines) != want {
		t.Fatalf("expected %d lines, got %d", want, len(lines))
	}
}

func TestPlotSharedAxisLabels(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, []Series{{Name: "WPM", Values: []float64{10, 50}}}, PlotOptions{Width: 10, Height: 5, Shared: true})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasPrefix(lines[0], "60 │") {
		t.Fatalf("expected top label 60, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "30 │") {
		t.Fatalf("expected middle label 30, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[4], " 0 │") {
		t.Fatalf("expected bottom label 0, got %q", lines[4])
	}
}

func TestPlotNothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := Plot(&buf, nil, PlotOptions{}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestResample(t *testing.T) {
	cases := []struct {
		in   []float64
		n    int
		want []float64
	}{
		{[]float64{1, 2, 3, 4}, 2, []float64{1.5, 3.5}},
		{[]float64{0, 10}, 3, []float64{0, 5, 10}},
		{[]float64{7}, 3, []float64{7, 7, 7}},
		{[]float64{1, 2}, 2, []float64{1, 2}},
	}
	for _, tc := range cases {
		got := resample(tc.in, tc.n)
		if len(got) != len(tc.want) {
			t.Fatalf("resample(%v, %d) = %v", tc.in, tc.n, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("resample(%v, %d) = %v, want %v", tc.in, tc.n, got, tc.want)
			}
		}
	}
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(2, 1)
	c.line(0, 0, 3, 3, func(int) bool { return true })
	if got := c.mask(0, 0); got != 0x01|0x10 {
		t.Fatalf("unexpected first cell mask %#x", got)
	}
	if got := c.mask(1, 0); got != 0x04|0x80 {
		t.Fatalf("unexpected second cell mask %#x", got)
	}
	if got := brailleRune(c.mask(0, 0)); got != '⠑' {
		t.Fatalf("unexpected braille rune %q", got)
	}
}

func TestScaleDotRowClamps(t *testing.T) {
	s := scale{lo: 0, hi: 10}
	if got := s.dotRow(20, 8); got != 0 {
		t.Fatalf("expected top row, got %d", got)
	}
	if got := s.dotRow(-5, 8); got != 7 {
		t.Fatalf("expected bottom row, got %d", got)
	}
	if got := s.dotRow(5, 8); got != 4 {
		t.Fatalf("expected middle row, got %d", got)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 73 {
		t.Fatalf("expected width 73, got %d", got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width for narrow terminals, got %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}
