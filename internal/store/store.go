// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps SQLite access for test results.
type Store struct {
	db *sql.DB
}

var pragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE results (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		lang TEXT NOT NULL,
		test_type TEXT NOT NULL,
		chars INTEGER NOT NULL,
		typed INTEGER NOT NULL,
		mistakes INTEGER NOT NULL,
		correct_word_chars INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		wpm REAL NOT NULL,
		wpm_raw REAL NOT NULL,
		accuracy REAL NOT NULL,
		completed INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_results_ended_at ON results(ended_at)`,
	`CREATE TABLE result_samples (
		result_id TEXT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
		second INTEGER NOT NULL,
		mistakes INTEGER NOT NULL,
		wpm REAL NOT NULL,
		wpm_raw REAL NOT NULL,
		PRIMARY KEY (result_id, second)
	)`,
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const resultColumns = `id, started_at, ended_at, lang, test_type, chars, typed, mistakes,
	correct_word_chars, duration_ms, wpm, wpm_raw, accuracy, completed`

// Open opens or creates the SQLite database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps per-connection pragmas in effect.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// InsertResult stores a finished test and its per-second history in one
// transaction. An empty result ID is replaced with a new UUID, which is
// returned.
func (s *Store) InsertResult(ctx context.Context, res model.Result, samples []model.Sample) (string, error) {
	id := res.ID
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin insert: %w", err)
	}
	if err := insertResult(ctx, tx, id, res, samples); err != nil {
		_ = tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit result %s: %w", id, err)
	}
	return id, nil
}

func insertResult(ctx context.Context, tx *sql.Tx, id string, res model.Result, samples []model.Sample) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		res.StartedAt.UTC().Format(timeLayout),
		res.EndedAt.UTC().Format(timeLayout),
		res.Lang,
		res.TestType,
		res.Chars,
		res.Typed,
		res.Mistakes,
		res.CorrectWordChars,
		res.DurationMs,
		res.WPM,
		res.WPMRaw,
		res.Accuracy,
		res.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", id, err)
	}
	if len(samples) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result_samples (result_id, second, mistakes, wpm, wpm_raw) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()
	for _, sm := range samples {
		if _, err := stmt.ExecContext(ctx, id, sm.Second, sm.Mistakes, sm.WPM, sm.WPMRaw); err != nil {
			return fmt.Errorf("insert sample %d of %s: %w", sm.Second, id, err)
		}
	}
	return nil
}

// ListResults returns stored results oldest first, filtered by cfg. Last
// keeps only the most recent matches.
func (s *Store) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Result, error) {
	var clauses []string
	var args []any
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.TestType != "" {
		clauses = append(clauses, "test_type = ?")
		args = append(args, cfg.TestType)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}

	query := `SELECT ` + resultColumns + ` FROM results`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	if cfg.Last > 0 {
		// Newest N, flipped back to oldest first by the outer query.
		query = `SELECT * FROM (` + query + ` ORDER BY ended_at DESC LIMIT ?) ORDER BY ended_at ASC`
		args = append(args, cfg.Last)
	} else {
		query += ` ORDER BY ended_at ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}

func scanResult(rows *sql.Rows) (model.Result, error) {
	var res model.Result
	var startedAt, endedAt string
	if err := rows.Scan(&res.ID, &startedAt, &endedAt, &res.Lang, &res.TestType, &res.Chars, &res.Typed,
		&res.Mistakes, &res.CorrectWordChars, &res.DurationMs, &res.WPM, &res.WPMRaw, &res.Accuracy, &res.Completed); err != nil {
		return res, fmt.Errorf("scan result: %w", err)
	}
	var err error
	if res.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return res, fmt.Errorf("result %s started_at: %w", res.ID, err)
	}
	if res.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return res, fmt.Errorf("result %s ended_at: %w", res.ID, err)
	}
	return res, nil
}

// ListSamples returns the per-second history of a result.
func (s *Store) ListSamples(ctx context.Context, resultID string) ([]model.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT second, mistakes, wpm, wpm_raw FROM result_samples
		 WHERE result_id = ?
		 ORDER BY second ASC`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query samples of %s: %w", resultID, err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var sm model.Sample
		if err := rows.Scan(&sm.Second, &sm.Mistakes, &sm.WPM, &sm.WPMRaw); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read samples of %s: %w", resultID, err)
	}
	return samples, nil
}
