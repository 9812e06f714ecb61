package typing

import "slices"

// accountWord updates the correct-word accumulator after the rune at s.index
// has been compared. A word ends at a target space or at the last rune; the
// span [wordStart, index] includes that space, so a word only counts when its
// separator was typed correctly too.
func (s *Session) accountWord() {
	if s.target[s.index] != ' ' && s.index != len(s.target)-1 {
		return
	}

	if s.wordStart > s.index {
		s.log.Warn("invalid word boundary, resetting word start",
			"word_start", s.wordStart, "index", s.index)
		s.wordStart = s.index
	}

	end := s.index + 1
	want, ok := s.extractWord(s.target, s.wordStart, end)
	if !ok {
		s.log.Warn("could not extract target word", "start", s.wordStart, "end", end)
	}
	got, ok := s.extractWord(s.input, s.wordStart, end)
	if !ok {
		s.log.Warn("could not extract typed word", "start", s.wordStart, "end", end)
	}
	if slices.Equal(want, got) {
		s.correctWordChars += len(want)
	}
	s.wordStart = end
}

// extractWord returns text[start:end] in rune space. Out-of-range bounds yield
// an empty word and false; an end past the text is clamped.
func (s *Session) extractWord(text []rune, start, end int) ([]rune, bool) {
	if start < 0 || start > end {
		return nil, false
	}
	if start == end {
		return nil, true
	}
	if start >= len(text) {
		return nil, false
	}
	if end > len(text) {
		end = len(text)
	}
	return text[start:end], true
}
