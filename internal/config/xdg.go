package config

import (
	"os"
	"path/filepath"
)

const (
	appName = "typetest"
	// dbEnv overrides the database location, mainly for scripted runs.
	dbEnv = "TYPETEST_DB"
)

// xdgDir returns the directory named by env, or home joined with fallback.
// Without a home directory it degrades to the working directory.
func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// XDGDataHome returns $XDG_DATA_HOME or ~/.local/share.
func XDGDataHome() string { return xdgDir("XDG_DATA_HOME", ".local", "share") }

// XDGStateHome returns $XDG_STATE_HOME or ~/.local/state.
func XDGStateHome() string { return xdgDir("XDG_STATE_HOME", ".local", "state") }

// DefaultWordListDir returns the directory searched for <lang>.txt lists.
func DefaultWordListDir() string {
	return filepath.Join(XDGConfigHome(), appName, "wordlists")
}

// DefaultDBPath returns $TYPETEST_DB or the results database under the data home.
func DefaultDBPath() string {
	if p := os.Getenv(dbEnv); p != "" {
		return p
	}
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultLogPath returns the log file under the state home.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, appName+".log")
}

// DefaultConfigPath returns the TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
