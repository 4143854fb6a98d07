// Package hooks implements the four Claude Code lifecycle hooks for
// Overlap: session-start, pre-tool-use, post-tool-use and session-end.
//
// Every handler reads one JSON event from stdin, does bounded work, and
// exits successfully no matter what went wrong internally: this layer is
// never allowed to be the reason the host's tool call fails or stalls.
// Stdout is reserved for host directives; diagnostics go to stderr.
package hooks

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxStdinBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MB is generous headroom against unbounded allocation.
const maxStdinBytes = 1 << 20

// Input is the event descriptor the host writes to stdin.
type Input struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	Source         string          `json:"source"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
}

// ParseInput reads one JSON event from r. The transcript path is
// home-expanded and the working directory defaults to the process cwd.
func ParseInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
	if err != nil {
		return nil, err
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	in.TranscriptPath = expandHome(in.TranscriptPath)
	if in.Cwd == "" {
		in.Cwd, _ = os.Getwd()
	}
	return &in, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
