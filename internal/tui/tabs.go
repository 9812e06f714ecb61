package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab is a top-level screen.
type Tab int

const (
	TabTyping Tab = iota
	TabOptions
	TabHistory
	TabAbout
)

var tabs = [...]Tab{TabTyping, TabOptions, TabHistory, TabAbout}

func (t Tab) String() string {
	switch t {
	case TabOptions:
		return "Options"
	case TabHistory:
		return "History"
	case TabAbout:
		return "About"
	default:
		return "Typing Test"
	}
}

// Next returns the following tab, wrapping around.
func (t Tab) Next() Tab {
	return tabs[(int(t)+1)%len(tabs)]
}

// Previous returns the preceding tab, wrapping around.
func (t Tab) Previous() Tab {
	return tabs[(int(t)+len(tabs)-1)%len(tabs)]
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

func renderTabs(active Tab) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := inactiveTabStyle
		if t == active {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func tabNames() string {
	names := make([]string, 0, len(tabs))
	for _, t := range tabs {
		names = append(names, t.String())
	}
	return strings.Join(names, " | ")
}
