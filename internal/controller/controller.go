// Package controller drives a typing session through its lifecycle and
// decides when the timer starts, stops and when metrics are sampled.
package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/typing"
)

// State is the controller lifecycle state.
type State int

const (
	NotStarted State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "not started"
	}
}

// ActionKind identifies a logical input.
type ActionKind int

const (
	ActionChar ActionKind = iota
	ActionBackspace
	ActionRestart
	ActionQuit
)

// Action is a decoded key press.
type Action struct {
	Kind ActionKind
	Rune rune
}

// Char returns a typing action for r.
func Char(r rune) Action { return Action{Kind: ActionChar, Rune: r} }

// Backspace returns a backspace action.
func Backspace() Action { return Action{Kind: ActionBackspace} }

// Restart returns a restart action.
func Restart() Action { return Action{Kind: ActionRestart} }

// Quit returns a quit action.
func Quit() Action { return Action{Kind: ActionQuit} }

// Signal tells the host loop what happened while handling an action.
type Signal int

const (
	SignalNone Signal = iota
	SignalStarted
	SignalFinished
	SignalReset
	SignalQuit
	SignalError
)

const sampleInterval = time.Second

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for the controller and its sessions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for the controller and its sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Controller owns one typing session at a time.
type Controller struct {
	provider  corpus.Provider
	selection corpus.Selection
	session   *typing.Session
	state     State

	lastSample time.Time
	lastErr    error

	now func() time.Time
	log *slog.Logger
}

// New fetches a passage for sel and builds a controller in NotStarted.
func New(provider corpus.Provider, sel corpus.Selection, opts ...Option) (*Controller, error) {
	c := &Controller{
		provider:  provider,
		selection: sel,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	text, err := c.fetch(sel)
	if err != nil {
		return nil, err
	}
	session, err := typing.New(text, typing.WithClock(c.now), typing.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrUnavailable, err)
	}
	c.session = session
	return c, nil
}

// Handle applies one action and reports what changed.
func (c *Controller) Handle(a Action) Signal {
	switch a.Kind {
	case ActionQuit:
		return SignalQuit
	case ActionRestart:
		if err := c.Reset(); err != nil {
			return SignalError
		}
		return SignalReset
	}
	if c.state == Finished {
		return SignalNone
	}

	switch a.Kind {
	case ActionChar:
		c.session.TypeChar(a.Rune)
	case ActionBackspace:
		c.session.Backspace()
	}
	return c.advance()
}

// advance runs the state transitions that follow an accepted input.
func (c *Controller) advance() Signal {
	sig := SignalNone
	if c.state == NotStarted && c.session.Progress() > 0 {
		c.state = Running
		c.session.Sample()
		c.lastSample = c.now()
		c.log.Debug("test started", "selection", c.selection.String())
		sig = SignalStarted
	}
	if c.state == Running && c.session.TextFinished() {
		c.finish()
		sig = SignalFinished
	}
	return sig
}

func (c *Controller) finish() {
	c.session.StopTimer()
	c.state = Finished
	c.log.Debug("test finished",
		"elapsed", c.session.Elapsed(),
		"mistakes", c.session.Mistakes(),
		"typed", c.session.Typed())
}

// Tick is polled by the host loop. While running it samples the metrics
// history once a full second has passed since the previous sample.
func (c *Controller) Tick(now time.Time) bool {
	if c.state != Running {
		return false
	}
	if now.Sub(c.lastSample) < sampleInterval {
		return false
	}
	c.session.Sample()
	c.lastSample = now
	return true
}

// Expire ends a running time race. It is a no-op in other states.
func (c *Controller) Expire() Signal {
	if c.state != Running {
		return SignalNone
	}
	c.session.Sample()
	c.finish()
	return SignalFinished
}

// Reset replaces the session with a fresh passage for the current selection.
func (c *Controller) Reset() error {
	return c.Select(c.selection)
}

// Select replaces the session with a fresh passage for sel. On failure the
// current session is kept.
func (c *Controller) Select(sel corpus.Selection) error {
	text, err := c.fetch(sel)
	if err != nil {
		c.lastErr = err
		return err
	}
	if err := c.session.Reset(text); err != nil {
		c.lastErr = fmt.Errorf("%w: %w", corpus.ErrUnavailable, err)
		return c.lastErr
	}
	c.selection = sel
	c.state = NotStarted
	c.lastSample = time.Time{}
	c.lastErr = nil
	return nil
}

func (c *Controller) fetch(sel corpus.Selection) (string, error) {
	text, err := c.provider.Passage(sel.Language, sel.TestType)
	if err != nil {
		c.log.Error("failed to fetch passage", "selection", sel.String(), "err", err)
		return "", fmt.Errorf("failed to fetch passage: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("failed to fetch passage: %w", corpus.ErrUnavailable)
	}
	return text, nil
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Session returns the current session for read access.
func (c *Controller) Session() *typing.Session { return c.session }

// Selection returns the language and test type of the current passage.
func (c *Controller) Selection() corpus.Selection { return c.selection }

// Err returns the last reset failure, if any.
func (c *Controller) Err() error { return c.lastErr }
