package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/controller"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/stats"
)

const chartHeight = 6

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.tab {
	case TabOptions:
		body = m.optionsView()
	case TabHistory:
		body = m.historyView()
	case TabAbout:
		body = aboutView()
	default:
		if m.ctrl.State() == controller.Finished {
			body = m.endView()
		} else {
			body = m.typingView()
		}
	}

	header := renderTabs(m.tab)
	footer := footerStyle.Render(m.footerHint())
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg) + "\n" + footer
	}
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{header, body, footer}, "\n")
	}
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer),
	)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) typingView() string {
	s := m.ctrl.Session()
	target := s.Target()
	cursor := -1
	if s.Index() < len(target) {
		cursor = s.Index()
	}
	width := m.contentWidth()
	passage := wrapStyledRunes(buildStyledRunes(target, s.States(), cursor), width)

	parts := []string{
		m.infoBar(),
		"",
		lipgloss.NewStyle().Width(width).Render(passage),
		"",
		m.progress.ViewAs(float64(s.Progress()) / 100),
	}
	if chart := m.chart(); chart != "" {
		parts = append(parts, "", chart)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) infoBar() string {
	s := m.ctrl.Session()
	snap := s.Snapshot()
	current := "end"
	if snap.Index < snap.Chars {
		current = fmt.Sprintf("%q", s.Target()[snap.Index])
	}
	segments := []string{
		m.ctrl.Selection().String(),
		fmt.Sprintf("Mistakes: %d", snap.Mistakes),
		fmt.Sprintf("Index: %d/%d", snap.Index, snap.Chars),
		fmt.Sprintf("Char: %s", current),
		fmt.Sprintf("Accuracy: %.1f%%", snap.Accuracy),
		fmt.Sprintf("WPM: %.1f", snap.WPM),
		fmt.Sprintf("Samples: %d", len(s.History())),
	}
	if m.ctrl.Selection().TestType.Timed() && m.cfg.TimeLimit > 0 {
		segments = append(segments, fmt.Sprintf("Time left: %s", stats.FormatDuration(m.timeLeft())))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) chart() string {
	history := m.ctrl.Session().History()
	if len(history) < 2 {
		return ""
	}
	var buf bytes.Buffer
	width := stats.PlotWidthFor(m.contentWidth())
	if err := stats.RenderHistoryChart(&buf, toModelSamples(history), width, chartHeight, true); err != nil {
		m.log.Warn("failed to render chart", "err", err)
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) endView() string {
	snap := m.ctrl.Session().Snapshot()
	lines := []string{
		titleStyle.Render("Test finished"),
		"",
		fmt.Sprintf("Accuracy: %.2f%%", snap.Accuracy),
		fmt.Sprintf("You needed %s minutes", stats.FormatDuration(snap.Elapsed)),
		fmt.Sprintf("WPM: %.2f (raw %.2f)", snap.WPM, snap.WPMRaw),
		fmt.Sprintf("Mistakes: %d out of %d total characters", snap.Mistakes, snap.Chars),
	}
	if chart := m.chart(); chart != "" {
		lines = append(lines, "", chart)
	}
	lines = append(lines, "", footerStyle.Render("r: restart  q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) optionsView() string {
	rows := []struct {
		field optionField
		label string
		value string
	}{
		{fieldLanguage, "Language", m.pending.Language.String()},
		{fieldTestType, "Test type", m.pending.TestType.String()},
	}
	lines := []string{titleStyle.Render("Options"), ""}
	for _, r := range rows {
		line := fmt.Sprintf("%-10s < %s >", r.label, r.value)
		if r.field == m.field {
			line = selectedOptionStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if m.pending.TestType == corpus.TimeRace && m.cfg.TimeLimit > 0 {
		lines = append(lines, "", footerStyle.Render(fmt.Sprintf("Time limit: %s", stats.FormatDuration(m.cfg.TimeLimit))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) historyView() string {
	if len(m.results) == 0 {
		return "No results found."
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.results); err != nil {
		m.log.Warn("failed to render summary", "err", err)
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(buf.String(), "\n"), "", m.history.View())
}

func aboutView() string {
	lines := []string{
		titleStyle.Render("typetest"),
		"",
		"A terminal typing test.",
		"Type the passage; the timer starts on the first key.",
		"WPM counts correctly typed words, raw WPM counts every keystroke.",
		"",
		"Tabs: " + tabNames(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) footerHint() string {
	switch m.tab {
	case TabOptions:
		return "up/down: field  left/right: change  enter: apply  ctrl+l/ctrl+h: tabs  esc: quit"
	case TabHistory:
		return "up/down: scroll  ctrl+l/ctrl+h: tabs  esc: quit"
	case TabAbout:
		return "ctrl+l/ctrl+h: tabs  esc: quit"
	default:
		return "ctrl+r: restart  ctrl+l/ctrl+h: tabs  esc: quit"
	}
}
