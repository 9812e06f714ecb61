package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/corpus"
)

type stubProvider struct {
	passages []string
	err      error
	calls    int
}

func (p *stubProvider) Passage(corpus.Language, corpus.TestType) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	text := p.passages[0]
	if len(p.passages) > 1 {
		p.passages = p.passages[1:]
	}
	return text, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newController(t *testing.T, passages ...string) (*Controller, *fakeClock, *stubProvider) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := &stubProvider{passages: passages}
	c, err := New(p, corpus.Selection{}, WithClock(clock.Now))
	require.NoError(t, err)
	return c, clock, p
}

func typeAll(c *Controller, text string) []Signal {
	var sigs []Signal
	for _, r := range text {
		sigs = append(sigs, c.Handle(Char(r)))
	}
	return sigs
}

func TestNewStartsNotStarted(t *testing.T) {
	c, _, p := newController(t, "ab cd")
	assert.Equal(t, NotStarted, c.State())
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "ab cd", string(c.Session().Target()))
}

func TestNewPropagatesCorpusError(t *testing.T) {
	p := &stubProvider{err: corpus.ErrUnavailable}
	_, err := New(p, corpus.Selection{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, corpus.ErrUnavailable))
}

func TestNewRefusesEmptyPassage(t *testing.T) {
	p := &stubProvider{passages: []string{""}}
	_, err := New(p, corpus.Selection{})
	assert.ErrorIs(t, err, corpus.ErrUnavailable)
}

func TestFirstCharStartsRunningAndSamples(t *testing.T) {
	c, _, _ := newController(t, "abc")
	sig := c.Handle(Char('a'))
	assert.Equal(t, SignalStarted, sig)
	assert.Equal(t, Running, c.State())
	require.Len(t, c.Session().History(), 1)
	assert.Equal(t, uint64(0), c.Session().History()[0].Second)
}

func TestFinishStopsTimerOnce(t *testing.T) {
	c, clock, _ := newController(t, "hi")
	c.Handle(Char('h'))
	clock.Advance(2 * time.Second)
	sig := c.Handle(Char('i'))
	assert.Equal(t, SignalFinished, sig)
	assert.Equal(t, Finished, c.State())
	assert.True(t, c.Session().Finished())

	elapsed := c.Session().Elapsed()
	clock.Advance(5 * time.Second)
	assert.Equal(t, elapsed, c.Session().Elapsed())
	assert.Equal(t, 2*time.Second, elapsed)
}

func TestSingleRunePassageStartsAndFinishes(t *testing.T) {
	c, _, _ := newController(t, "a")
	sig := c.Handle(Char('a'))
	assert.Equal(t, SignalFinished, sig)
	assert.Equal(t, Finished, c.State())
	assert.Len(t, c.Session().History(), 1)
}

func TestTypingWhileFinishedIsIgnored(t *testing.T) {
	c, _, _ := newController(t, "hi")
	typeAll(c, "hi")
	require.Equal(t, Finished, c.State())
	assert.Equal(t, SignalNone, c.Handle(Char('x')))
	assert.Equal(t, SignalNone, c.Handle(Backspace()))
	assert.Equal(t, 2, c.Session().Index())
	assert.Equal(t, 2, c.Session().Typed())
}

func TestBackspaceScenarioThroughController(t *testing.T) {
	c, _, _ := newController(t, "hi")
	c.Handle(Char('h'))
	c.Handle(Backspace())
	assert.Equal(t, Running, c.State())
	typeAll(c, "hi")
	s := c.Session()
	assert.Equal(t, 3, s.Typed())
	assert.Equal(t, 0, s.Mistakes())
	assert.Equal(t, 2, s.Index())
	assert.True(t, s.Finished())
	assert.Equal(t, Finished, c.State())
}

func TestTickSamplesOncePerSecond(t *testing.T) {
	c, clock, _ := newController(t, "abcdef")
	assert.False(t, c.Tick(clock.Now()))

	c.Handle(Char('a'))
	clock.Advance(500 * time.Millisecond)
	assert.False(t, c.Tick(clock.Now()))
	clock.Advance(500 * time.Millisecond)
	assert.True(t, c.Tick(clock.Now()))
	assert.Len(t, c.Session().History(), 2)
}

func TestTickBackfillsIdleSeconds(t *testing.T) {
	c, clock, _ := newController(t, "abcdef")
	c.Handle(Char('a'))
	clock.Advance(4200 * time.Millisecond)
	require.True(t, c.Tick(clock.Now()))

	hist := c.Session().History()
	require.Len(t, hist, 5)
	for i := 1; i < len(hist); i++ {
		assert.Equal(t, hist[1].WPMRaw, hist[i].WPMRaw)
		assert.Equal(t, uint64(i), hist[i].Second)
	}
}

func TestTickIgnoredAfterFinish(t *testing.T) {
	c, clock, _ := newController(t, "ab")
	typeAll(c, "ab")
	clock.Advance(3 * time.Second)
	assert.False(t, c.Tick(clock.Now()))
}

func TestRestartFetchesNewPassage(t *testing.T) {
	c, _, p := newController(t, "ab", "xyz")
	typeAll(c, "ab")
	require.Equal(t, Finished, c.State())

	assert.Equal(t, SignalReset, c.Handle(Restart()))
	assert.Equal(t, NotStarted, c.State())
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, "xyz", string(c.Session().Target()))
	assert.Equal(t, 0, c.Session().Typed())
	assert.Empty(t, c.Session().History())
}

func TestRestartFailureKeepsSession(t *testing.T) {
	c, _, p := newController(t, "ab")
	c.Handle(Char('a'))
	p.err = corpus.ErrUnavailable

	assert.Equal(t, SignalError, c.Handle(Restart()))
	assert.ErrorIs(t, c.Err(), corpus.ErrUnavailable)
	assert.Equal(t, Running, c.State())
	assert.Equal(t, 1, c.Session().Index())
}

func TestSelectChangesSelection(t *testing.T) {
	c, _, _ := newController(t, "ab", "cd")
	sel := corpus.Selection{Language: corpus.German, TestType: corpus.TimeRace}
	require.NoError(t, c.Select(sel))
	assert.Equal(t, sel, c.Selection())
}

func TestQuitIsASignal(t *testing.T) {
	c, _, _ := newController(t, "ab")
	assert.Equal(t, SignalQuit, c.Handle(Quit()))
	assert.Equal(t, NotStarted, c.State())
}

func TestExpireEndsRunningTest(t *testing.T) {
	c, clock, _ := newController(t, "abcdef")
	assert.Equal(t, SignalNone, c.Expire())

	c.Handle(Char('a'))
	clock.Advance(30 * time.Second)
	assert.Equal(t, SignalFinished, c.Expire())
	assert.Equal(t, Finished, c.State())
	assert.Equal(t, 30*time.Second, c.Session().Elapsed())
	assert.Len(t, c.Session().History(), 31)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "not started", NotStarted.String())
}
