// Package model defines shared data structures.
package model

import "time"

// Config defines typing test settings.
type Config struct {
	Lang          string
	TestType      string
	Words         int
	TimeRaceWords int
	TimeLimit     time.Duration
	CapsPct       float64
	PunctPct      float64
	PunctSet      string
	Transliterate bool
	WordListDir   string
}

// HistoryConfig defines filters for the stored results listing.
type HistoryConfig struct {
	Lang     string
	TestType string
	Since    *time.Time
	Last     int
}

// Result captures a finished typing test.
type Result struct {
	ID               string
	StartedAt        time.Time
	EndedAt          time.Time
	Lang             string
	TestType         string
	Chars            int
	Typed            int
	Mistakes         int
	CorrectWordChars int
	DurationMs       int64
	WPM              float64
	WPMRaw           float64
	Accuracy         float64
	Completed        bool
}

// Sample is a stored per-second metrics entry.
type Sample struct {
	Second   int64
	Mistakes int64
	WPM      float64
	WPMRaw   float64
}
