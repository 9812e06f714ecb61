// Package main provides the CLI entrypoint for typetest.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/controller"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/tui"
)

const (
	defaultLang          = "en"
	defaultTestType      = "random"
	defaultWords         = 30
	defaultTimeRaceWords = 200
	defaultCaps          = 0.0
	defaultPunct         = 0.0
	defaultLogLevel      = "info"
)

const defaultPunctSet = ".,!?;:"

var (
	testLang          string
	testType          string
	testWords         int
	testTimeRaceWords int
	testTimeLimit     time.Duration
	testCaps          float64
	testPunct         float64
	testPunctSet      string
	testTransliterate bool
	testWordListDir   string
	logLevel          string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testLang, "lang", defaultLang, "language code (en, de)")
	rootCmd.Flags().StringVar(&testType, "type", defaultTestType, "test type (random, top1k, top10k, timerace)")
	rootCmd.Flags().IntVar(&testWords, "words", defaultWords, "words per passage")
	rootCmd.Flags().IntVar(&testTimeRaceWords, "time-race-words", defaultTimeRaceWords, "words per time race passage")
	rootCmd.Flags().DurationVar(&testTimeLimit, "time-limit", corpus.DefaultTimeLimit, "time race limit")
	rootCmd.Flags().Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&testPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&testPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&testTransliterate, "transliterate", false, "replace German umlauts with ASCII")
	rootCmd.Flags().StringVar(&testWordListDir, "wordlist-dir", config.DefaultWordListDir(), "directory with <lang>.txt word lists")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd.Flags(), "lang", &testLang, fileCfg.Test.Lang)
	applyConfig(cmd.Flags(), "type", &testType, fileCfg.Test.TestType)
	applyConfig(cmd.Flags(), "words", &testWords, fileCfg.Test.Words)
	applyConfig(cmd.Flags(), "time-race-words", &testTimeRaceWords, fileCfg.Test.TimeRaceWords)
	if err := applyDurationConfig(cmd.Flags(), "time-limit", &testTimeLimit, fileCfg.Test.TimeLimit); err != nil {
		return err
	}
	applyConfig(cmd.Flags(), "caps", &testCaps, fileCfg.Test.CapsPct)
	applyConfig(cmd.Flags(), "punct", &testPunct, fileCfg.Test.PunctPct)
	applyConfig(cmd.Flags(), "punct-set", &testPunctSet, fileCfg.Test.PunctSet)
	applyConfig(cmd.Flags(), "transliterate", &testTransliterate, fileCfg.Test.Transliterate)
	applyConfig(cmd.Flags(), "wordlist-dir", &testWordListDir, fileCfg.Test.WordListDir)
	applyConfig(cmd.Flags(), "log-level", &logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		Lang:          testLang,
		TestType:      testType,
		Words:         testWords,
		TimeRaceWords: testTimeRaceWords,
		TimeLimit:     testTimeLimit,
		CapsPct:       testCaps,
		PunctPct:      testPunct,
		PunctSet:      testPunctSet,
		Transliterate: testTransliterate,
		WordListDir:   testWordListDir,
	}
	sel, err := validateConfig(cfg)
	if err != nil {
		return err
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	logger, closer, err := openLogger(logPath, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	slog.SetDefault(logger)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	source := corpus.NewSource(corpus.Config{
		Dir:           cfg.WordListDir,
		Words:         cfg.Words,
		TimeRaceWords: cfg.TimeRaceWords,
		CapsPct:       cfg.CapsPct,
		PunctPct:      cfg.PunctPct,
		PunctSet:      []rune(cfg.PunctSet),
		Transliterate: cfg.Transliterate,
	}, generator.New(), logger)

	ctrl, err := controller.New(source, sel, controller.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	logger.Info("starting typing test", "selection", sel.String(), "words", cfg.Words)

	program := tea.NewProgram(tui.NewModel(cfg, ctrl, st, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLogger(path, level string) (*slog.Logger, io.Closer, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger, closer, err := logging.Open(path, lvl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, closer, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// applyConfig copies a config file value into target unless the flag was set
// on the command line.
func applyConfig[T any](flags *pflag.FlagSet, name string, target, value *T) {
	if value == nil || flags.Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(flags *pflag.FlagSet, name string, target *time.Duration, value *string) error {
	if value == nil || flags.Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# lang = %q               # Language code (en, de)
# type = %q           # Test type (random, top1k, top10k, timerace)
# words = %d              # Words per passage
# time-race-words = %d   # Words per time race passage
# time-limit = %q        # Time race limit
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# transliterate = false   # Replace German umlauts with ASCII
# wordlist-dir = %q

[log]
# level = %q            # debug, info, warn, error
# file = %q
`,
		defaultLang,
		defaultTestType,
		defaultWords,
		defaultTimeRaceWords,
		corpus.DefaultTimeLimit.String(),
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		config.DefaultWordListDir(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

// validateConfig checks cfg and resolves the initial passage selection.
func validateConfig(cfg model.Config) (corpus.Selection, error) {
	var sel corpus.Selection
	lang, err := corpus.ParseLanguage(cfg.Lang)
	if err != nil {
		return sel, fmt.Errorf("--lang: %w", err)
	}
	tt, err := corpus.ParseTestType(cfg.TestType)
	if err != nil {
		return sel, fmt.Errorf("--type: %w", err)
	}
	if cfg.Words <= 0 {
		return sel, fmt.Errorf("--words must be > 0")
	}
	if cfg.TimeRaceWords <= 0 {
		return sel, fmt.Errorf("--time-race-words must be > 0")
	}
	if cfg.TimeLimit <= 0 {
		return sel, fmt.Errorf("--time-limit must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return sel, fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return sel, fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return sel, fmt.Errorf("--punct-set must not be empty")
	}
	return corpus.Selection{Language: lang, TestType: tt}, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
