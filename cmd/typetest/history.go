package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
)

const (
	defaultCurveWindow = 5
	curveHeight        = 8
)

var (
	historyLang        string
	historyType        string
	historySince       string
	historyLast        int
	historyCurveWindow int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&historyType, "type", "", "test type filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	width, useColor := 0, false
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		useColor = true
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}
	return writeHistory(context.Background(), cmd.OutOrStdout(), st, cfg, width, useColor)
}

// writeHistory prints the summary, the results table, the trend line, the
// learning curves and the per-second chart of the most recent result.
func writeHistory(ctx context.Context, out io.Writer, st *store.Store, cfg model.HistoryConfig, width int, useColor bool) error {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if err := stats.RenderSummary(out, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(results) == 0 {
		return nil
	}
	if err := stats.RenderResultTable(out, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	wpms := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
	}
	if _, err := fmt.Fprintf(out, "Trend: %s\n\n", stats.Sparkline(wpms)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(out, results, historyCurveWindow, width, curveHeight, useColor); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
	}

	latest := results[len(results)-1]
	samples, err := st.ListSamples(ctx, latest.ID)
	if err != nil {
		return fmt.Errorf("failed to list samples: %w", err)
	}
	if len(samples) < 2 {
		return nil
	}
	if _, err := fmt.Fprintf(out, "\nLatest test (%s, %s)\n", latest.Lang, latest.TestType); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	plotWidth := 0
	if width > 0 {
		plotWidth = stats.PlotWidthFor(width)
	}
	if err := stats.RenderHistoryChart(out, samples, plotWidth, curveHeight, useColor); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func historyConfig() (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	if historyLang != "" {
		lang, err := corpus.ParseLanguage(historyLang)
		if err != nil {
			return cfg, fmt.Errorf("--lang: %w", err)
		}
		cfg.Lang = lang.Code()
	}
	if historyType != "" {
		tt, err := corpus.ParseTestType(historyType)
		if err != nil {
			return cfg, fmt.Errorf("--type: %w", err)
		}
		cfg.TestType = tt.Key()
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if historyLast < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	cfg.Last = historyLast
	return cfg, nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultWordListDir()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if fileCfg.Test.WordListDir != nil && *fileCfg.Test.WordListDir != "" {
		dir = *fileCfg.Test.WordListDir
	}

	onDisk, err := wordListFiles(dir)
	if err != nil {
		return err
	}
	if len(onDisk) == 0 {
		logErrln("No word list files found in", dir, "- using built-in lists")
	}
	for _, lang := range corpus.Languages() {
		source := "built-in"
		if _, ok := onDisk[lang.Code()]; ok {
			source = dir
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", lang.Code(), lang, source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func wordListFiles(dir string) (map[string]struct{}, error) {
	found := map[string]struct{}{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return found, nil
		}
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		found[strings.TrimSuffix(entry.Name(), ".txt")] = struct{}{}
	}
	return found, nil
}
