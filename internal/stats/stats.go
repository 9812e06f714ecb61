// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates stored results.
type Summary struct {
	Tests       int
	Completed   int
	AvgWPM      float64
	BestWPM     float64
	AvgWPMRaw   float64
	AvgAccuracy float64
	TotalTime   time.Duration
}

// Summarize computes averages over results.
func Summarize(results []model.Result) Summary {
	var sum Summary
	if len(results) == 0 {
		return sum
	}
	var totalWPM, totalRaw, totalAcc float64
	for _, r := range results {
		sum.Tests++
		if r.Completed {
			sum.Completed++
		}
		totalWPM += r.WPM
		totalRaw += r.WPMRaw
		totalAcc += r.Accuracy
		if r.WPM > sum.BestWPM {
			sum.BestWPM = r.WPM
		}
		sum.TotalTime += time.Duration(r.DurationMs) * time.Millisecond
	}
	count := float64(len(results))
	sum.AvgWPM = totalWPM / count
	sum.AvgWPMRaw = totalRaw / count
	sum.AvgAccuracy = totalAcc / count
	return sum
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
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

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	sum := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d (%d completed)", sum.Tests, sum.Completed),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", sum.BestWPM),
		fmt.Sprintf("Avg raw WPM: %.2f", sum.AvgWPMRaw),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy),
		fmt.Sprintf("Time typed: %s", FormatDuration(sum.TotalTime)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ResultRows formats results as table cells, newest first.
func ResultRows(results []model.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.Lang,
			r.TestType,
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.WPMRaw),
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%d", r.Mistakes),
			FormatDuration(time.Duration(r.DurationMs) * time.Millisecond),
		})
	}
	return rows
}

// RenderResultTable prints stored results, newest first.
func RenderResultTable(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		return nil
	}
	for _, line := range layoutTable(resultColumns, ResultRows(results)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints WPM and accuracy learning curves across results.
func RenderCurves(w io.Writer, results []model.Result, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot(w, []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, PlotOptions{Title: "Learning Curves", Width: width, Height: height, Color: useColor})
}
