package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestPickWithoutRepetition(t *testing.T) {
	g := NewSeeded(1)
	words := []string{"a", "b", "c", "d"}
	picked := g.Pick(words, 4)
	if len(picked) != 4 {
		t.Fatalf("expected 4 words, got %d", len(picked))
	}
	seen := map[string]bool{}
	for _, w := range picked {
		if seen[w] {
			t.Fatalf("word %q picked twice: %v", w, picked)
		}
		seen[w] = true
	}
}

func TestPickRepeatsWhenListIsShort(t *testing.T) {
	g := NewSeeded(1)
	picked := g.Pick([]string{"x", "y"}, 5)
	if len(picked) != 5 {
		t.Fatalf("expected 5 words, got %d", len(picked))
	}
}

func TestPickEmpty(t *testing.T) {
	g := NewSeeded(1)
	if got := g.Pick(nil, 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestGenerateAlwaysDecorates(t *testing.T) {
	g := NewSeeded(7)
	out := g.Generate([]string{"one", "two", "three"}, 3, Options{CapsPct: 1, PunctPct: 1, PunctSet: []rune{'!'}})
	for _, w := range out {
		if !unicode.IsUpper([]rune(w)[0]) {
			t.Fatalf("expected capitalized word, got %q", w)
		}
		if !strings.HasSuffix(w, "!") {
			t.Fatalf("expected punctuation suffix, got %q", w)
		}
	}
}

func TestDecorateCapitalizesMultibyteRune(t *testing.T) {
	g := NewSeeded(3)
	if got := g.decorate("über", Options{CapsPct: 1}); got != "Über" {
		t.Fatalf("expected Über, got %q", got)
	}
}

func TestGenerateWithoutDecoration(t *testing.T) {
	g := NewSeeded(5)
	for _, w := range g.Generate([]string{"one", "two"}, 4, Options{PunctSet: []rune{'.'}}) {
		if w != "one" && w != "two" {
			t.Fatalf("expected undecorated word, got %q", w)
		}
	}
}
