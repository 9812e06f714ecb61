package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/typing"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes colours the passage from the per-rune comparison states.
// cursorIndex is -1 once the passage is complete.
func buildStyledRunes(targetRunes []rune, states []typing.CharState, cursorIndex int) []styledRune {
	wordStart, wordEnd := currentWord(targetRunes, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		state := typing.Untyped
		if i < len(states) {
			state = states[i]
		}
		switch {
		case i == cursorIndex:
			style = cursorStyle
		case state == typing.Correct:
			style = correctStyle
		case state == typing.Incorrect:
			style = incorrectStyle
			if target == ' ' {
				displayed = '•'
			}
		case i >= wordStart && i < wordEnd:
			style = currentWordStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

// currentWord returns the [start, end) range of the word the cursor is in.
// On a space it is the following word; past the end it is empty.
func currentWord(target []rune, cursor int) (start, end int) {
	if cursor < 0 || cursor >= len(target) {
		return 0, 0
	}
	start, end = cursor, cursor
	if target[cursor] == ' ' {
		start, end = cursor+1, cursor+1
	} else {
		for start > 0 && target[start-1] != ' ' {
			start--
		}
	}
	for end < len(target) && target[end] != ' ' {
		end++
	}
	return start, end
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// splitTokens cuts the passage after every space, so each token is a word
// followed by its separator.
func splitTokens(runes []styledRune) [][]styledRune {
	var out [][]styledRune
	start := 0
	for i, r := range runes {
		if r.isSpace {
			out = append(out, runes[start:i+1])
			start = i + 1
		}
	}
	if start < len(runes) {
		out = append(out, runes[start:])
	}
	return out
}

// wrapStyledRunes packs tokens into lines of at most width cells. A token
// wider than a line is hard-broken.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	flush := func() {
		lines = append(lines, renderStyledRunes(line))
		line, lineWidth = nil, 0
	}

	for _, tok := range splitTokens(runes) {
		tokWidth := 0
		for _, r := range tok {
			tokWidth += r.width
		}
		if len(line) > 0 && lineWidth+tokWidth > width {
			flush()
		}
		for _, r := range tok {
			if len(line) > 0 && lineWidth+r.width > width {
				flush()
			}
			line = append(line, r)
			lineWidth += r.width
		}
	}
	flush()
	return strings.Join(lines, "\n")
}
