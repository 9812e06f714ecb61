package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/generator"
)

func newTestSource(cfg Config) *Source {
	return NewSource(cfg, generator.NewSeeded(42), nil)
}

func TestPassageUsesWordListFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.txt"), []byte("alpha\nbeta\ngamma\n"), 0o644))

	src := newTestSource(Config{Dir: dir, Words: 3})
	text, err := src.Passage(English, RandomWords)
	require.NoError(t, err)

	words := strings.Split(text, " ")
	require.Len(t, words, 3)
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, words)
}

func TestPassageFallsBackWhenFileMissing(t *testing.T) {
	src := newTestSource(Config{Dir: t.TempDir(), Words: 10})
	text, err := src.Passage(German, Top1K)
	require.NoError(t, err)
	assert.Len(t, strings.Split(text, " "), 10)
	assert.NotContains(t, text, "  ")
}

func TestPassageTimeRaceUsesLargerCount(t *testing.T) {
	src := newTestSource(Config{Words: 5, TimeRaceWords: 40})
	text, err := src.Passage(English, TimeRace)
	require.NoError(t, err)
	assert.Len(t, strings.Split(text, " "), 40)
}

func TestPassageUnreadableListIsTypedError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be cannot be read as a word list.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "en.txt"), 0o755))

	src := newTestSource(Config{Dir: dir, Words: 3})
	_, err := src.Passage(English, RandomWords)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPassageRejectsZeroWords(t *testing.T) {
	src := newTestSource(Config{})
	_, err := src.Passage(English, RandomWords)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPassageTransliteratesGerman(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.txt"), []byte("grün\nstraße\n"), 0o644))
	src := newTestSource(Config{Dir: dir, Words: 2, Transliterate: true})
	text, err := src.Passage(German, RandomWords)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gruen", "strasse"}, strings.Split(text, " "))
}

func TestFallbackListsAreNonEmpty(t *testing.T) {
	for _, lang := range Languages() {
		words, err := Fallback(lang)
		require.NoError(t, err)
		assert.Greater(t, len(words), 100, lang.String())
	}
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "Aepfel Groesse Fuss", Transliterate("Äpfel Größe Fuß"))
}
