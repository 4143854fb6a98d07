package config

import (
	"encoding/json"
	"os"

	"github.com/overlaphq/overlap-cli/errors"
)

// Config holds the three settings every hook needs to talk to the server.
type Config struct {
	ServerURL string `json:"server_url,omitempty"`
	TeamToken string `json:"team_token,omitempty"`
	UserToken string `json:"user_token,omitempty"`
}

// Load reads config.json (if present) and applies environment overrides.
// A missing or unreadable file is not an error: the result is simply an
// emptier config, and IsConfigured decides what that means.
func Load() *Config {
	cfg := &Config{}

	if data, err := os.ReadFile(File()); err == nil {
		// Malformed JSON leaves cfg zero-valued; env vars may still fill it in.
		_ = json.Unmarshal(data, cfg)
	}

	if v := os.Getenv("OVERLAP_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("OVERLAP_TEAM_TOKEN"); v != "" {
		cfg.TeamToken = v
	}
	if v := os.Getenv("OVERLAP_USER_TOKEN"); v != "" {
		cfg.UserToken = v
	}

	return cfg
}

// IsConfigured reports whether all required settings are present.
func (c *Config) IsConfigured() bool {
	return c.ServerURL != "" && c.TeamToken != "" && c.UserToken != ""
}

// Save persists the config to config.json.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to create config directory")
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to encode config")
	}

	if err := os.WriteFile(File(), data, 0600); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to write config file")
	}

	return nil
}
