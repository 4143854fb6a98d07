package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRepoName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"git@github.com:acme/overlap.git", "overlap"},
		{"git@github.com:acme/overlap", "overlap"},
		{"https://github.com/acme/overlap.git", "overlap"},
		{"https://github.com/acme/overlap", "overlap"},
		{"https://github.com/acme/overlap/", "overlap"},
		{"ssh://git@gitlab.example.com/team/sub/repo.git", "repo"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, extractRepoName(tc.url))
		})
	}
}

func TestIsRemoteSession(t *testing.T) {
	clear := func(t *testing.T) {
		t.Setenv("SSH_CLIENT", "")
		t.Setenv("SSH_TTY", "")
		t.Setenv("CLAUDE_CODE_REMOTE", "")
	}

	t.Run("local", func(t *testing.T) {
		clear(t)
		assert.False(t, isRemoteSession())
	})

	t.Run("ssh client", func(t *testing.T) {
		clear(t)
		t.Setenv("SSH_CLIENT", "10.0.0.1 50000 22")
		assert.True(t, isRemoteSession())
	})

	t.Run("ssh tty", func(t *testing.T) {
		clear(t)
		t.Setenv("SSH_TTY", "/dev/pts/0")
		assert.True(t, isRemoteSession())
	})

	t.Run("explicit flag", func(t *testing.T) {
		clear(t)
		t.Setenv("CLAUDE_CODE_REMOTE", "true")
		assert.True(t, isRemoteSession())
	})

	t.Run("flag must be exactly true", func(t *testing.T) {
		clear(t)
		t.Setenv("CLAUDE_CODE_REMOTE", "1")
		assert.False(t, isRemoteSession())
	})
}

func TestCollectInNonRepoDir(t *testing.T) {
	t.Setenv("SSH_CLIENT", "")
	t.Setenv("SSH_TTY", "")
	t.Setenv("CLAUDE_CODE_REMOTE", "")

	info := Collect(context.Background(), t.TempDir())
	assert.NotEmpty(t, info.Hostname)
	assert.NotEmpty(t, info.DeviceName)
	assert.Empty(t, info.RepoName)
	assert.Empty(t, info.RemoteURL)
	assert.Empty(t, info.Branch)
}
