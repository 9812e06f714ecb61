package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/model"
)

// Series is a named sequence of values plotted left to right.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls plot rendering.
type PlotOptions struct {
	Title  string
	Width  int
	Height int
	Color  bool
	// Shared puts every series on one 0..max axis with numeric labels
	// instead of scaling each series to its own range.
	Shared bool
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	sharedHeadroom      = 10.0
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// seriesStyle pairs a dash pattern with an ANSI colour so series stay
// distinguishable with and without colour.
type seriesStyle struct {
	pattern string
	color   string
	period  int
	on      int
}

var seriesStyles = []seriesStyle{
	{pattern: "solid", color: "\x1b[36m", period: 1, on: 1},
	{pattern: "dashed", color: "\x1b[33m", period: 6, on: 3},
	{pattern: "dotted", color: "\x1b[35m", period: 4, on: 1},
	{pattern: "dashdot", color: "\x1b[32m", period: 8, on: 3},
}

func styleFor(i int) seriesStyle { return seriesStyles[i%len(seriesStyles)] }

func (s seriesStyle) keep(x int) bool {
	if s.period <= 1 {
		return true
	}
	return absInt(x)%s.period < s.on
}

// scale maps values in [lo, hi] onto dot rows, top row first.
type scale struct {
	lo, hi float64
}

func (s scale) dotRow(v float64, dots int) int {
	if dots <= 1 || s.hi == s.lo {
		return max(0, dots-1)
	}
	pos := (v - s.lo) / (s.hi - s.lo)
	row := int(math.Round((1 - pos) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

func seriesScales(series []Series, shared bool) []scale {
	out := make([]scale, len(series))
	if shared {
		top := 0.0
		for _, s := range series {
			_, hi := bounds(s.Values)
			top = math.Max(top, hi)
		}
		for i := range out {
			out[i] = scale{lo: 0, hi: top + sharedHeadroom}
		}
		return out
	}
	for i, s := range series {
		lo, hi := bounds(s.Values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		out[i] = scale{lo: lo, hi: hi}
	}
	return out
}

// HistorySeries turns a per-second history into WPM and raw WPM series.
func HistorySeries(samples []model.Sample) []Series {
	wpm := make([]float64, len(samples))
	raw := make([]float64, len(samples))
	for i, s := range samples {
		wpm[i] = s.WPM
		raw[i] = s.WPMRaw
	}
	return []Series{
		{Name: "WPM", Values: wpm},
		{Name: "Raw WPM", Values: raw},
	}
}

// RenderHistoryChart plots WPM and raw WPM per second on a shared axis.
func RenderHistoryChart(w io.Writer, samples []model.Sample, width, height int, useColor bool) error {
	if len(samples) == 0 {
		return nil
	}
	return Plot(w, HistorySeries(samples), PlotOptions{
		Title:  fmt.Sprintf("WPM over %ds", samples[len(samples)-1].Second),
		Width:  width,
		Height: height,
		Color:  useColor,
		Shared: true,
	})
}

// Plot renders series as a braille line chart.
func Plot(w io.Writer, series []Series, opts PlotOptions) error {
	series = slices.DeleteFunc(slices.Clone(series), func(s Series) bool { return len(s.Values) == 0 })
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	for i := range series {
		series[i].Values = resample(series[i].Values, width)
	}
	scales := seriesScales(series, opts.Shared)

	layers := make([]*canvas, len(series))
	for i, s := range series {
		c := newCanvas(width, height)
		style := styleFor(i)
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px, py := x*2, scales[i].dotRow(v, c.dotsHigh())
			if prevX < 0 {
				if style.keep(px) {
					c.set(px, py)
				}
			} else {
				c.line(prevX, prevY, px, py, style.keep)
			}
			prevX, prevY = px, py
		}
		layers[i] = c
	}

	useColor := shouldUseColor(w, opts.Color)
	labels := percentLabels(height)
	if opts.Shared {
		labels = valueLabels(height, scales[0].hi)
	}
	labelWidth := 0
	for _, label := range labels {
		labelWidth = max(labelWidth, utf8.RuneCountInString(label))
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title + "\n")
	}
	if !opts.Shared {
		b.WriteString(scaleNote + "\n")
		for i, s := range series {
			fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, scales[i].lo, scales[i].hi)
		}
	}
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := overlay(layers, x, y)
			if useColor && owner >= 0 {
				b.WriteString(styleFor(owner).color)
				b.WriteRune(brailleRune(mask))
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(brailleRune(mask))
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, useColor) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleRune(dotBits[0][0])
	for i, s := range series {
		style := styleFor(i)
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, style.pattern)
		if useColor {
			label = style.color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func percentLabels(height int) []string {
	return axisLabels(height, axisLabelTop, "50%", "0%")
}

func valueLabels(height int, top float64) []string {
	return axisLabels(height, fmt.Sprintf("%.0f", top), fmt.Sprintf("%.0f", top/2), "0")
}

func axisLabels(height int, top, mid, bottom string) []string {
	labels := make([]string, max(height, 0))
	if height <= 0 {
		return labels
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

// resample fits values to n points. Buckets are averaged when shrinking and
// neighbours are linearly interpolated when stretching.
func resample(values []float64, n int) []float64 {
	switch {
	case len(values) == 0 || n <= 0:
		return nil
	case len(values) == n:
		return slices.Clone(values)
	case len(values) > n:
		return shrink(values, n)
	default:
		return stretch(values, n)
	}
}

func shrink(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		lo := i * len(values) / n
		hi := min(max(lo+1, (i+1)*len(values)/n), len(values))
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func stretch(values []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	step := float64(len(values)-1) / float64(n-1)
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx] + (values[idx+1]-values[idx])*frac
	}
	return out
}

// bounds returns the smallest and largest value, or zeros for no values.
func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return slices.Min(values), slices.Max(values)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
