package corpus

import (
	"fmt"
	"strings"
	"time"
)

// Language selects the word list a passage is drawn from.
type Language int

const (
	English Language = iota
	German
)

var languages = [...]Language{English, German}

// Languages returns all supported languages in cycling order.
func Languages() []Language { return languages[:] }

// Code returns the word list code, e.g. "en".
func (l Language) Code() string {
	switch l {
	case German:
		return "de"
	default:
		return "en"
	}
}

func (l Language) String() string {
	switch l {
	case German:
		return "German"
	default:
		return "English"
	}
}

// Next returns the following language, wrapping around.
func (l Language) Next() Language {
	return languages[(int(l)+1)%len(languages)]
}

// Previous returns the preceding language, wrapping around.
func (l Language) Previous() Language {
	return languages[(int(l)+len(languages)-1)%len(languages)]
}

// ParseLanguage accepts a language code or name.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range languages {
		if s == l.Code() || s == strings.ToLower(l.String()) {
			return l, nil
		}
	}
	return English, fmt.Errorf("unknown language %q", s)
}

// TestType selects how a passage is built.
type TestType int

const (
	RandomWords TestType = iota
	Top1K
	Top10K
	TimeRace
)

var testTypes = [...]TestType{RandomWords, Top1K, Top10K, TimeRace}

// DefaultTimeLimit is the time race duration when none is configured.
const DefaultTimeLimit = 30 * time.Second

// TestTypes returns all test types in cycling order.
func TestTypes() []TestType { return testTypes[:] }

// Key returns the identifier used in flags and config.
func (t TestType) Key() string {
	switch t {
	case Top1K:
		return "top1k"
	case Top10K:
		return "top10k"
	case TimeRace:
		return "timerace"
	default:
		return "random"
	}
}

func (t TestType) String() string {
	switch t {
	case Top1K:
		return "Top 1K words"
	case Top10K:
		return "Top 10K words"
	case TimeRace:
		return "Time race"
	default:
		return "Random words"
	}
}

// Next returns the following test type, wrapping around.
func (t TestType) Next() TestType {
	return testTypes[(int(t)+1)%len(testTypes)]
}

// Previous returns the preceding test type, wrapping around.
func (t TestType) Previous() TestType {
	return testTypes[(int(t)+len(testTypes)-1)%len(testTypes)]
}

// Timed reports whether the presentation layer should enforce a time limit.
func (t TestType) Timed() bool { return t == TimeRace }

// ParseTestType accepts a test type key.
func ParseTestType(s string) (TestType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range testTypes {
		if s == t.Key() {
			return t, nil
		}
	}
	return RandomWords, fmt.Errorf("unknown test type %q", s)
}

// Selection is the language and test type of a passage request.
type Selection struct {
	Language Language
	TestType TestType
}

func (s Selection) String() string {
	return fmt.Sprintf("%s · %s", s.Language, s.TestType)
}
