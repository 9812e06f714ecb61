package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	title string
	right bool
}

var resultColumns = []column{
	{title: "Date"},
	{title: "Lang"},
	{title: "Type"},
	{title: "WPM", right: true},
	{title: "Raw", right: true},
	{title: "Accuracy", right: true},
	{title: "Mistakes", right: true},
	{title: "Time", right: true},
}

// ResultHeaders are the column titles matching ResultRows.
var ResultHeaders = columnTitles(resultColumns)

func columnTitles(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.title
	}
	return out
}

// layoutTable pads each cell to the widest entry of its column and puts a
// rule under the header. Cells beyond the known columns are dropped.
func layoutTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	rule := make([]string, len(cols))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinCells(cols, widths, columnTitles(cols)), strings.Join(rule, " "))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(0, widths[i]-runewidth.StringWidth(cell)))
		if c.right {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}
