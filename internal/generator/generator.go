// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"time"
	"unicode"
	"unicode/utf8"
)

// Options controls word decoration.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects count words without repetition while the list allows it,
// then falls back to uniform picks with repetition.
func (g *Generator) Pick(words []string, count int) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	perm := g.rnd.Perm(len(words))
	for _, idx := range perm {
		if len(result) == count {
			return result
		}
		result = append(result, words[idx])
	}
	for len(result) < count {
		result = append(result, words[g.rnd.Intn(len(words))])
	}
	return result
}

// Generate picks count words and decorates them with caps and punctuation.
func (g *Generator) Generate(words []string, count int, opts Options) []string {
	picked := g.Pick(words, count)
	for i, word := range picked {
		picked[i] = g.decorate(word, opts)
	}
	return picked
}

// decorate capitalizes the first rune with probability CapsPct and appends a
// rune from PunctSet with probability PunctPct.
func (g *Generator) decorate(word string, opts Options) string {
	if word == "" {
		return word
	}
	if opts.CapsPct > 0 && g.rnd.Float64() <= opts.CapsPct {
		first, size := utf8.DecodeRuneInString(word)
		word = string(unicode.ToUpper(first)) + word[size:]
	}
	if opts.PunctPct > 0 && len(opts.PunctSet) > 0 && g.rnd.Float64() <= opts.PunctPct {
		word += string(opts.PunctSet[g.rnd.Intn(len(opts.PunctSet))])
	}
	return word
}
