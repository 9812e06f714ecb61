package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testResult(i int, lang, testType string) model.Result {
	start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
	end := start.Add(30 * time.Second)
	return model.Result{
		StartedAt:        start,
		EndedAt:          end,
		Lang:             lang,
		TestType:         testType,
		Chars:            50,
		Typed:            52,
		Mistakes:         2,
		CorrectWordChars: 45,
		DurationMs:       end.Sub(start).Milliseconds(),
		WPM:              18,
		WPMRaw:           20.8,
		Accuracy:         96.15,
		Completed:        true,
	}
}

func TestInsertAndListResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := st.InsertResult(ctx, testResult(i, "en", "random"), nil)
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated id")
		}
		ids = append(ids, id)
	}
	if _, err := st.InsertResult(ctx, testResult(3, "de", "timerace"), nil); err != nil {
		t.Fatalf("insert result: %v", err)
	}

	all, err := st.ListResults(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 results, got %d", len(all))
	}
	if !all[0].Completed || all[0].Typed != 52 || all[0].WPMRaw != 20.8 {
		t.Fatalf("unexpected round trip: %+v", all[0])
	}
	if !all[0].EndedAt.Equal(time.Unix(30, 0)) {
		t.Fatalf("unexpected ended_at: %v", all[0].EndedAt)
	}

	en, err := st.ListResults(ctx, model.HistoryConfig{Lang: "en", Last: 2})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(en) != 2 || en[0].ID != ids[1] || en[1].ID != ids[2] {
		t.Fatalf("unexpected filtered results: %+v", en)
	}

	race, err := st.ListResults(ctx, model.HistoryConfig{TestType: "timerace"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(race) != 1 || race[0].Lang != "de" {
		t.Fatalf("unexpected test type filter result: %+v", race)
	}

	since := time.Unix(0, 0).UTC().Add(2 * time.Minute)
	recent, err := st.ListResults(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent results, got %d", len(recent))
	}
}

func TestInsertResultSamples(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	samples := []model.Sample{
		{Second: 0, WPM: 0, WPMRaw: 0},
		{Second: 1, WPM: 30, WPMRaw: 36, Mistakes: 1},
		{Second: 2, WPM: 42, WPMRaw: 48, Mistakes: 1},
	}
	id, err := st.InsertResult(ctx, testResult(0, "en", "random"), samples)
	if err != nil {
		t.Fatalf("insert result: %v", err)
	}
	got, err := st.ListSamples(ctx, id)
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: expected %+v, got %+v", i, samples[i], got[i])
		}
	}
}

func TestInsertResultDuplicateIDFails(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	res := testResult(0, "en", "random")
	res.ID = "fixed"
	if _, err := st.InsertResult(ctx, res, []model.Sample{{Second: 0}}); err != nil {
		t.Fatalf("insert result: %v", err)
	}
	if _, err := st.InsertResult(ctx, res, []model.Sample{{Second: 0}}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	samples, err := st.ListSamples(ctx, "fixed")
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected rolled back insert to leave 1 sample, got %d", len(samples))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "typetest.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := st.InsertResult(context.Background(), testResult(0, "en", "random"), nil); err != nil {
		t.Fatalf("insert result: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st.Close()
	results, err := st.ListResults(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected result to survive reopen, got %d", len(results))
	}
}

func TestSamplesRequireResult(t *testing.T) {
	st := openTestStore(t)
	_, err := st.db.Exec(`INSERT INTO result_samples (result_id, second, mistakes, wpm, wpm_raw) VALUES ('missing', 0, 0, 0, 0)`)
	if err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestListResultsSinceComparesFractionalSeconds(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	whole := testResult(0, "en", "random")
	fractional := testResult(0, "en", "random")
	fractional.EndedAt = whole.EndedAt.Add(500 * time.Millisecond)
	for _, res := range []model.Result{whole, fractional} {
		if _, err := st.InsertResult(ctx, res, nil); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	since := whole.EndedAt.Add(time.Millisecond)
	got, err := st.ListResults(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(got) != 1 || !got[0].EndedAt.Equal(fractional.EndedAt) {
		t.Fatalf("expected only the later result, got %+v", got)
	}
}
