package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)
	t.Setenv("OVERLAP_SERVER_URL", "")
	t.Setenv("OVERLAP_TEAM_TOKEN", "")
	t.Setenv("OVERLAP_USER_TOKEN", "")

	content := `{"server_url": "https://overlap.example.com", "team_token": "tt", "user_token": "ut"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600))

	cfg := Load()
	assert.Equal(t, "https://overlap.example.com", cfg.ServerURL)
	assert.Equal(t, "tt", cfg.TeamToken)
	assert.Equal(t, "ut", cfg.UserToken)
	assert.True(t, cfg.IsConfigured())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)
	t.Setenv("OVERLAP_SERVER_URL", "https://env.example.com")
	t.Setenv("OVERLAP_TEAM_TOKEN", "")
	t.Setenv("OVERLAP_USER_TOKEN", "")

	content := `{"server_url": "https://file.example.com", "team_token": "tt", "user_token": "ut"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600))

	cfg := Load()
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, "tt", cfg.TeamToken)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("OVERLAP_CONFIG_DIR", t.TempDir())
	t.Setenv("OVERLAP_SERVER_URL", "")
	t.Setenv("OVERLAP_TEAM_TOKEN", "")
	t.Setenv("OVERLAP_USER_TOKEN", "")

	cfg := Load()
	assert.False(t, cfg.IsConfigured())
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)
	t.Setenv("OVERLAP_SERVER_URL", "")
	t.Setenv("OVERLAP_TEAM_TOKEN", "tt-env")
	t.Setenv("OVERLAP_USER_TOKEN", "")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600))

	// Malformed file is ignored; env vars still apply.
	cfg := Load()
	assert.Equal(t, "tt-env", cfg.TeamToken)
	assert.Empty(t, cfg.ServerURL)
}

func TestIsConfiguredRequiresAll(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"all set", Config{ServerURL: "u", TeamToken: "t", UserToken: "k"}, true},
		{"missing url", Config{TeamToken: "t", UserToken: "k"}, false},
		{"missing team token", Config{ServerURL: "u", UserToken: "k"}, false},
		{"missing user token", Config{ServerURL: "u", TeamToken: "t"}, false},
		{"empty", Config{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.IsConfigured())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)
	t.Setenv("OVERLAP_SERVER_URL", "")
	t.Setenv("OVERLAP_TEAM_TOKEN", "")
	t.Setenv("OVERLAP_USER_TOKEN", "")

	in := &Config{ServerURL: "https://overlap.example.com", TeamToken: "tt", UserToken: "ut"}
	require.NoError(t, Save(in))

	// Tokens stay private to the user.
	info, err := os.Stat(File())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out := Load()
	assert.Equal(t, in, out)
}
