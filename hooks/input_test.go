package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	in, err := ParseInput(strings.NewReader(`{
		"session_id": "host-1",
		"transcript_path": "/tmp/t.jsonl",
		"cwd": "/work",
		"tool_name": "Edit",
		"tool_input": {"file_path": "/work/a.go"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "host-1", in.SessionID)
	assert.Equal(t, "/tmp/t.jsonl", in.TranscriptPath)
	assert.Equal(t, "/work", in.Cwd)
	assert.Equal(t, "Edit", in.ToolName)
	assert.JSONEq(t, `{"file_path": "/work/a.go"}`, string(in.ToolInput))
}

func TestParseInputExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	in, err := ParseInput(strings.NewReader(`{"transcript_path": "~/.claude/t.jsonl"}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude", "t.jsonl"), in.TranscriptPath)
}

func TestParseInputDefaultsCwd(t *testing.T) {
	in, err := ParseInput(strings.NewReader(`{"session_id": "host-1"}`))
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, wd, in.Cwd)
}

func TestParseInputRejectsMalformedJSON(t *testing.T) {
	_, err := ParseInput(strings.NewReader("{not json"))
	assert.Error(t, err)
}
