// Package config loads the Overlap plugin configuration.
//
// Resolution order for every option:
// 1. OVERLAP_* environment variables
// 2. <config dir>/config.json
//
// The config directory defaults to ~/.claude/overlap and can be relocated
// with OVERLAP_CONFIG_DIR.
package config

import (
	"os"
	"path/filepath"
)

// Dir returns the Overlap config directory.
func Dir() string {
	if dir := os.Getenv("OVERLAP_CONFIG_DIR"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".claude", "overlap")
	}
	return ""
}

// File returns the path to config.json.
func File() string {
	return filepath.Join(Dir(), "config.json")
}

// SessionsFile returns the path to the persisted session map.
func SessionsFile() string {
	return filepath.Join(Dir(), "sessions.json")
}

// LogDir returns the directory hook logs are written to.
func LogDir() string {
	return filepath.Join(Dir(), "logs")
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Dir(), 0755)
}
