// Package corpus supplies target passages for typing tests.
package corpus

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

// ErrUnavailable marks failures to produce a passage.
var ErrUnavailable = errors.New("corpus unavailable")

const (
	top1K  = 1000
	top10K = 10000
)

//go:embed data/en.txt
var fallbackEnglish []byte

//go:embed data/de.txt
var fallbackGerman []byte

// Provider returns a non-empty passage of single-space separated words.
type Provider interface {
	Passage(lang Language, testType TestType) (string, error)
}

// Config controls passage building.
type Config struct {
	// Dir holds <code>.txt word lists ordered by frequency.
	Dir           string
	Words         int
	TimeRaceWords int
	CapsPct       float64
	PunctPct      float64
	PunctSet      []rune
	// Transliterate replaces German umlauts and ß with ASCII digraphs.
	Transliterate bool
}

// Source builds passages from word list files, falling back to the
// built-in lists when a file is missing.
type Source struct {
	cfg   Config
	gen   *generator.Generator
	log   *slog.Logger
	cache map[Language][]string
}

// NewSource constructs a Source.
func NewSource(cfg Config, gen *generator.Generator, logger *slog.Logger) *Source {
	if gen == nil {
		gen = generator.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{cfg: cfg, gen: gen, log: logger, cache: map[Language][]string{}}
}

// Passage implements Provider.
func (s *Source) Passage(lang Language, testType TestType) (string, error) {
	words, err := s.words(lang)
	if err != nil {
		return "", err
	}
	switch testType {
	case Top1K:
		words = head(words, top1K)
	case Top10K:
		words = head(words, top10K)
	}

	count := s.cfg.Words
	if testType == TimeRace && s.cfg.TimeRaceWords > 0 {
		count = s.cfg.TimeRaceWords
	}
	if count <= 0 {
		return "", fmt.Errorf("%w: word count must be > 0", ErrUnavailable)
	}

	picked := s.gen.Generate(words, count, generator.Options{
		CapsPct:  s.cfg.CapsPct,
		PunctPct: s.cfg.PunctPct,
		PunctSet: s.cfg.PunctSet,
	})
	text := strings.Join(picked, " ")
	if lang == German && s.cfg.Transliterate {
		text = Transliterate(text)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty passage for %s", ErrUnavailable, lang.Code())
	}
	return text, nil
}

func (s *Source) words(lang Language) ([]string, error) {
	if words, ok := s.cache[lang]; ok {
		return words, nil
	}
	words, err := s.load(lang)
	if err != nil {
		return nil, err
	}
	s.cache[lang] = words
	return words, nil
}

func (s *Source) load(lang Language) ([]string, error) {
	if s.cfg.Dir != "" {
		path := filepath.Join(s.cfg.Dir, lang.Code()+".txt")
		words, err := wordlist.LoadWords(path)
		switch {
		case err == nil:
			words = wordlist.Filter(words, singleWord)
			if len(words) == 0 {
				return nil, fmt.Errorf("%w: %s has no usable words", ErrUnavailable, path)
			}
			s.log.Info("loaded word list", "lang", lang.Code(), "path", path, "words", len(words))
			return words, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: failed to load %s: %w", ErrUnavailable, path, err)
		}
		s.log.Info("word list not found, using built-in list", "lang", lang.Code(), "path", path)
	}
	return Fallback(lang)
}

// Fallback returns the built-in word list for lang.
func Fallback(lang Language) ([]string, error) {
	data := fallbackEnglish
	if lang == German {
		data = fallbackGerman
	}
	words, err := wordlist.ReadWords(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: built-in %s list: %w", ErrUnavailable, lang.Code(), err)
	}
	return wordlist.Filter(words, wordlist.FilterForLang(lang.Code())), nil
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"Ä", "Ae",
	"Ö", "Oe",
	"Ü", "Ue",
	"ß", "ss",
)

// Transliterate replaces German umlauts and ß with ASCII digraphs.
func Transliterate(text string) string {
	return umlautReplacer.Replace(text)
}

func singleWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func head(words []string, n int) []string {
	if len(words) <= n {
		return words
	}
	return words[:n]
}
