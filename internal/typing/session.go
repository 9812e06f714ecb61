// Package typing implements the typing session engine: per-rune correctness,
// word accounting, timing and the per-second metrics history.
package typing

import (
	"errors"
	"log/slog"
	"time"
)

// ErrEmptyPassage is returned when a session is built from empty text.
var ErrEmptyPassage = errors.New("passage is empty")

// CharState is the comparison result for a single target rune.
type CharState uint8

const (
	Untyped CharState = iota
	Correct
	Incorrect
)

func (s CharState) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "untyped"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now as the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for recoverable accounting problems.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Session holds the state of one typing test.
type Session struct {
	target []rune
	states []CharState
	input  []rune
	index  int

	mistakes int
	typed    int

	wordStart        int
	correctWordChars int

	startTime time.Time
	endTime   time.Time
	finished  bool

	recorder Recorder

	now func() time.Time
	log *slog.Logger
}

// New builds a session for the given passage.
func New(text string, opts ...Option) (*Session, error) {
	s := &Session{
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(text); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset discards all state and starts over with text. The clock and logger
// survive; everything else is rebuilt.
func (s *Session) Reset(text string) error {
	if text == "" {
		return ErrEmptyPassage
	}
	target := []rune(text)
	*s = Session{
		target: target,
		states: make([]CharState, len(target)),
		input:  make([]rune, 0, len(target)),
		now:    s.now,
		log:    s.log,
	}
	return nil
}

// TypeChar compares r against the rune under the cursor and advances.
// Input past the end of the passage is ignored.
func (s *Session) TypeChar(r rune) {
	if s.index >= len(s.target) {
		return
	}
	if s.index == 0 {
		s.StartTimer()
	}

	s.input = append(s.input, r)
	s.typed++

	if r == s.target[s.index] {
		s.states[s.index] = Correct
	} else {
		s.states[s.index] = Incorrect
		s.mistakes++
	}

	s.accountWord()
	s.index++
	if s.index == len(s.target) {
		s.finished = true
	}
}

// Backspace removes the last typed rune. Mistake and keystroke counters are
// cumulative and stay untouched.
func (s *Session) Backspace() {
	if len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
	if s.index > 0 {
		s.index--
		s.states[s.index] = Untyped
	}
}

// Accuracy returns the share of keystrokes that were correct, in percent.
func (s *Session) Accuracy() float64 {
	if s.typed == 0 {
		return 100.0
	}
	return float64(s.typed-s.mistakes) / float64(s.typed) * 100.0
}

// Progress returns the completed share of the passage as 0..100.
func (s *Session) Progress() int {
	if len(s.target) == 0 {
		return 0
	}
	return int(float64(s.index) / float64(len(s.target)) * 100)
}

// StartTimer records the start time once.
func (s *Session) StartTimer() {
	if s.startTime.IsZero() {
		s.startTime = s.now()
	}
}

// StopTimer records the end time once. A stopped timer stays stopped until Reset.
func (s *Session) StopTimer() {
	if s.endTime.IsZero() {
		s.endTime = s.now()
	}
}

// Elapsed returns the time spent typing so far.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.startTime.IsZero():
		return 0
	case s.endTime.IsZero():
		return s.now().Sub(s.startTime)
	default:
		return s.endTime.Sub(s.startTime)
	}
}

// Target returns the passage runes. Callers must not modify the slice.
func (s *Session) Target() []rune { return s.target }

// States returns the per-rune comparison state used for colouring.
func (s *Session) States() []CharState { return s.states }

// Input returns the typed runes.
func (s *Session) Input() []rune { return s.input }

// Index returns the cursor position.
func (s *Session) Index() int { return s.index }

// Mistakes returns the cumulative number of wrong keystrokes.
func (s *Session) Mistakes() int { return s.mistakes }

// Typed returns the cumulative number of keystrokes.
func (s *Session) Typed() int { return s.typed }

// CorrectWordChars returns the runes that belong to exactly typed words.
func (s *Session) CorrectWordChars() int { return s.correctWordChars }

// Finished reports whether the cursor has reached the end at least once.
func (s *Session) Finished() bool { return s.finished }

// TextFinished reports whether the cursor is at the end of the passage.
func (s *Session) TextFinished() bool { return s.index == len(s.target) }

// Started reports whether the timer is running or has run.
func (s *Session) Started() bool { return !s.startTime.IsZero() }

// StartedAt returns the wall-clock start, zero when not started.
func (s *Session) StartedAt() time.Time { return s.startTime }

// EndedAt returns the wall-clock end, zero while running.
func (s *Session) EndedAt() time.Time { return s.endTime }
