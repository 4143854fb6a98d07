// Package sessions persists the mapping from Claude transcript paths to
// Overlap sessions.
//
// The store is a single JSON map in the config directory, keyed by a hash
// of the transcript path. Concurrent hook processes serialize on an
// exclusive file lock around every read-modify-write, so updates to any
// one entry are linearizable.
package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Status is the lifecycle state of a tracked session.
type Status string

const (
	// StatusPending marks a session known locally but not yet confirmed
	// with the server.
	StatusPending Status = "pending"

	// StatusActive marks a session with a confirmed Overlap session ID.
	StatusActive Status = "active"
)

// Info is the environment snapshot captured when an entry is created.
// It is gathered at most once per entry and reused at registration time.
type Info struct {
	SessionID  string `json:"session_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	IsRemote   bool   `json:"is_remote,omitempty"`
	Worktree   string `json:"worktree,omitempty"`
	RepoName   string `json:"repo_name,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
	Branch     string `json:"branch,omitempty"`
}

// Entry is one tracked session, keyed by its transcript hash.
//
// Timestamps are stored as RFC 3339 strings rather than time.Time so an
// entry with a mangled created_at still loads and can be garbage
// collected instead of poisoning the whole map.
type Entry struct {
	OverlapSessionID     string  `json:"overlap_session_id,omitempty"`
	Status               Status  `json:"status,omitempty"`
	TranscriptPath       string  `json:"transcript_path,omitempty"`
	Worktree             string  `json:"worktree,omitempty"`
	SessionInfo          *Info   `json:"session_info,omitempty"`
	CreatedAt            string  `json:"created_at,omitempty"`
	LastWriteHeartbeatAt string  `json:"last_write_heartbeat_at,omitempty"`
	LastReadHeartbeatAt  string  `json:"last_read_heartbeat_at,omitempty"`
}

// IsActive reports whether the entry has a confirmed Overlap session.
// Entries written before the status field existed carry only a session ID;
// those are treated as active.
func (e *Entry) IsActive() bool {
	if e == nil {
		return false
	}
	if e.Status == StatusActive {
		return e.OverlapSessionID != ""
	}
	return e.Status == "" && e.OverlapSessionID != ""
}

// IsPending reports whether the entry awaits registration.
func (e *Entry) IsPending() bool {
	return e != nil && e.Status == StatusPending
}

// LastHeartbeat returns the parsed write- or read-heartbeat timestamp.
// The second return is false when the timestamp is absent or unparseable.
func (e *Entry) LastHeartbeat(write bool) (time.Time, bool) {
	if e == nil {
		return time.Time{}, false
	}
	raw := e.LastReadHeartbeatAt
	if write {
		raw = e.LastWriteHeartbeatAt
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Key derives the store key for a transcript path: the path is
// home-expanded and hashed, so the key is stable and opaque.
func Key(transcriptPath string) string {
	normalized := expandHome(transcriptPath)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// expandHome expands a leading ~ in a path.
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
