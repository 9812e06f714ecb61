// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
	Log  LogConfig  `toml:"log"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Lang          *string  `toml:"lang"`
	TestType      *string  `toml:"type"`
	Words         *int     `toml:"words"`
	TimeRaceWords *int     `toml:"time-race-words"`
	TimeLimit     *string  `toml:"time-limit"`
	CapsPct       *float64 `toml:"caps"`
	PunctPct      *float64 `toml:"punct"`
	PunctSet      *string  `toml:"punct-set"`
	Transliterate *bool    `toml:"transliterate"`
	WordListDir   *string  `toml:"wordlist-dir"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
