package typing

import "time"

// charsPerWord is the standard word length used by WPM formulas.
const charsPerWord = 5.0

// Sample is one per-second entry of the metrics history.
type Sample struct {
	Second   uint64
	Mistakes uint64
	WPM      float64
	WPMRaw   float64
}

// Snapshot is a copy of the session counters and derived metrics.
type Snapshot struct {
	Chars            int
	Index            int
	Typed            int
	Mistakes         int
	CorrectWordChars int
	Elapsed          time.Duration
	WPM              float64
	WPMRaw           float64
	Accuracy         float64
	Progress         int
}

// NetWPM counts only runes of exactly typed words, spaces included.
func NetWPM(correctWordChars int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return (float64(correctWordChars) / charsPerWord) * 60 / secs
}

// RawWPM counts every keystroke, mistakes included.
func RawWPM(typed int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return (float64(typed) / charsPerWord) * 60 / secs
}

// Recorder keeps the append-only per-second history.
type Recorder struct {
	history []Sample
}

// Record appends samples up to and including second current. The first call
// always records second 0; seconds skipped since the last entry are filled
// with the given values.
func (r *Recorder) Record(current uint64, values Sample) {
	if len(r.history) == 0 {
		values.Second = 0
		r.history = append(r.history, values)
	}
	last := r.history[len(r.history)-1].Second
	for sec := last + 1; sec <= current; sec++ {
		values.Second = sec
		r.history = append(r.history, values)
	}
}

// History returns the recorded samples in order.
func (r *Recorder) History() []Sample { return r.history }

// WPM returns the net words per minute so far.
func (s *Session) WPM() float64 {
	return NetWPM(s.correctWordChars, s.Elapsed())
}

// WPMRaw returns the raw words per minute so far.
func (s *Session) WPMRaw() float64 {
	return RawWPM(s.typed, s.Elapsed())
}

// Sample records the metrics history up to the current elapsed second.
// Nothing is recorded before the timer starts.
func (s *Session) Sample() {
	if !s.Started() {
		return
	}
	elapsed := s.Elapsed()
	s.recorder.Record(uint64(elapsed/time.Second), Sample{
		Mistakes: uint64(s.mistakes),
		WPM:      NetWPM(s.correctWordChars, elapsed),
		WPMRaw:   RawWPM(s.typed, elapsed),
	})
}

// History returns the per-second metrics history.
func (s *Session) History() []Sample { return s.recorder.History() }

// Snapshot copies the counters and metrics at the current clock reading.
func (s *Session) Snapshot() Snapshot {
	elapsed := s.Elapsed()
	return Snapshot{
		Chars:            len(s.target),
		Index:            s.index,
		Typed:            s.typed,
		Mistakes:         s.mistakes,
		CorrectWordChars: s.correctWordChars,
		Elapsed:          elapsed,
		WPM:              NetWPM(s.correctWordChars, elapsed),
		WPMRaw:           RawWPM(s.typed, elapsed),
		Accuracy:         s.Accuracy(),
		Progress:         s.Progress(),
	}
}
