// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/controller"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/typing"
)

const (
	tickInterval = 250 * time.Millisecond
	storeTimeout = 5 * time.Second
	historyLimit = 50
)

// ResultStore persists finished tests.
type ResultStore interface {
	InsertResult(ctx context.Context, res model.Result, samples []model.Sample) (string, error)
	ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Result, error)
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type optionField int

const (
	fieldLanguage optionField = iota
	fieldTestType
	optionFieldCount
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	cfg   model.Config
	ctrl  *controller.Controller
	store ResultStore
	log   *slog.Logger

	width  int
	height int
	tab    Tab

	progress progress.Model
	history  table.Model
	results  []model.Result

	field   optionField
	pending corpus.Selection

	errMsg string
}

// NewModel constructs a typing TUI model. store may be nil, in which case
// results are not persisted.
func NewModel(cfg model.Config, ctrl *controller.Controller, store ResultStore, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		cfg:      cfg,
		ctrl:     ctrl,
		store:    store,
		log:      logger,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		history:  newHistoryTable(),
		pending:  ctrl.Selection(),
	}
	m.refreshHistory()
	return m
}

func newHistoryTable() table.Model {
	widths := []int{16, 4, 9, 6, 6, 8, 8, 6}
	cols := make([]table.Column, len(stats.ResultHeaders))
	for i, title := range stats.ResultHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.contentWidth()
		m.history.SetHeight(max(3, msg.Height-8))
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.onTick(time.Time(msg)), tick())
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) onTick(now time.Time) tea.Cmd {
	if m.ctrl.State() != controller.Running {
		return nil
	}
	if m.timeUp() {
		return m.handleSignal(m.ctrl.Expire())
	}
	m.ctrl.Tick(now)
	return nil
}

// timeUp reports whether a running time race has used up its limit.
func (m *Model) timeUp() bool {
	if !m.ctrl.Selection().TestType.Timed() || m.cfg.TimeLimit <= 0 {
		return false
	}
	return m.ctrl.State() == controller.Running && m.ctrl.Session().Elapsed() >= m.cfg.TimeLimit
}

func (m *Model) timeLeft() time.Duration {
	left := m.cfg.TimeLimit - m.ctrl.Session().Elapsed()
	return max(0, left)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		return m.handleSignal(m.ctrl.Handle(controller.Quit()))
	case tea.KeyCtrlL, tea.KeyTab:
		m.switchTab(m.tab.Next())
		return nil
	case tea.KeyCtrlH, tea.KeyShiftTab:
		m.switchTab(m.tab.Previous())
		return nil
	}

	switch m.tab {
	case TabTyping:
		return m.handleTypingKey(msg)
	case TabOptions:
		m.handleOptionsKey(msg)
		return nil
	case TabHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd
	default:
		return nil
	}
}

func (m *Model) switchTab(t Tab) {
	m.tab = t
	switch t {
	case TabOptions:
		m.pending = m.ctrl.Selection()
		m.field = fieldLanguage
	case TabHistory:
		m.refreshHistory()
	}
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlR {
		return m.handleSignal(m.ctrl.Handle(controller.Restart()))
	}
	if m.ctrl.State() == controller.Finished {
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return nil
		}
		switch msg.Runes[0] {
		case 'r':
			return m.handleSignal(m.ctrl.Handle(controller.Restart()))
		case 'q':
			return m.handleSignal(m.ctrl.Handle(controller.Quit()))
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		return m.handleSignal(m.ctrl.Handle(controller.Backspace()))
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m.typeRunes(msg.Runes)
	default:
		return nil
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		if m.timeUp() {
			cmds = append(cmds, m.handleSignal(m.ctrl.Expire()))
			break
		}
		cmds = append(cmds, m.handleSignal(m.ctrl.Handle(controller.Char(r))))
		if m.ctrl.State() == controller.Finished {
			break
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleOptionsKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.field = (m.field + optionFieldCount - 1) % optionFieldCount
	case "down", "j":
		m.field = (m.field + 1) % optionFieldCount
	case "left", "h":
		m.cycleOption(false)
	case "right", "l":
		m.cycleOption(true)
	case "enter":
		if err := m.ctrl.Select(m.pending); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.errMsg = ""
		m.tab = TabTyping
	}
}

func (m *Model) cycleOption(forward bool) {
	switch m.field {
	case fieldLanguage:
		if forward {
			m.pending.Language = m.pending.Language.Next()
		} else {
			m.pending.Language = m.pending.Language.Previous()
		}
	case fieldTestType:
		if forward {
			m.pending.TestType = m.pending.TestType.Next()
		} else {
			m.pending.TestType = m.pending.TestType.Previous()
		}
	}
}

func (m *Model) handleSignal(sig controller.Signal) tea.Cmd {
	switch sig {
	case controller.SignalFinished:
		m.saveResult()
	case controller.SignalReset:
		m.errMsg = ""
	case controller.SignalQuit:
		return tea.Quit
	case controller.SignalError:
		if err := m.ctrl.Err(); err != nil {
			m.errMsg = err.Error()
		}
	}
	return nil
}

func (m *Model) saveResult() {
	res, samples := buildResult(m.ctrl)
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	id, err := m.store.InsertResult(ctx, res, samples)
	if err != nil {
		m.log.Error("failed to save result", "err", err)
		m.errMsg = "failed to save result"
		return
	}
	m.log.Info("result saved", "id", id, "wpm", res.WPM, "accuracy", res.Accuracy)
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	results, err := m.store.ListResults(ctx, model.HistoryConfig{Last: historyLimit})
	if err != nil {
		m.log.Error("failed to load history", "err", err)
		return
	}
	m.results = results
	rows := stats.ResultRows(results)
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	m.history.SetRows(tableRows)
}

// buildResult converts the finished session of ctrl into a storable result.
func buildResult(ctrl *controller.Controller) (model.Result, []model.Sample) {
	s := ctrl.Session()
	sel := ctrl.Selection()
	snap := s.Snapshot()
	res := model.Result{
		StartedAt:        s.StartedAt(),
		EndedAt:          s.EndedAt(),
		Lang:             sel.Language.Code(),
		TestType:         sel.TestType.Key(),
		Chars:            snap.Chars,
		Typed:            snap.Typed,
		Mistakes:         snap.Mistakes,
		CorrectWordChars: snap.CorrectWordChars,
		DurationMs:       snap.Elapsed.Milliseconds(),
		WPM:              snap.WPM,
		WPMRaw:           snap.WPMRaw,
		Accuracy:         snap.Accuracy,
		Completed:        s.TextFinished(),
	}
	return res, toModelSamples(s.History())
}

func toModelSamples(history []typing.Sample) []model.Sample {
	out := make([]model.Sample, len(history))
	for i, h := range history {
		out[i] = model.Sample{
			Second:   int64(h.Second),
			Mistakes: int64(h.Mistakes),
			WPM:      h.WPM,
			WPMRaw:   h.WPMRaw,
		}
	}
	return out
}
