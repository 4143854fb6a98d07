package api

import (
	"github.com/overlaphq/overlap-cli/logging"
)

// StartSessionRequest is the body for POST /api/v1/sessions/start.
// The git fields are optional and serialized only when non-empty; the
// server rejects explicit empty values for them.
type StartSessionRequest struct {
	SessionID  string `json:"session_id"`
	DeviceName string `json:"device_name"`
	Hostname   string `json:"hostname"`
	IsRemote   bool   `json:"is_remote"`
	Worktree   string `json:"worktree"`
	RepoName   string `json:"repo_name,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
	Branch     string `json:"branch,omitempty"`
}

// HeartbeatRequest is the body for POST /api/v1/sessions/{id}/heartbeat.
type HeartbeatRequest struct {
	Files    []string `json:"files"`
	ToolName string   `json:"tool_name"`
}

// HeartbeatResult is the server's reply to a heartbeat.
type HeartbeatResult struct {
	Throttled     bool    `json:"throttled,omitempty"`
	RetryAfter    float64 `json:"retry_after,omitempty"`
	Reactivated   bool    `json:"reactivated,omitempty"`
	SemanticScope string  `json:"semantic_scope,omitempty"`
}

// CheckRequest is the body for POST /api/v1/check.
type CheckRequest struct {
	Files []string `json:"files"`
}

// Overlap is one other session touching the same files. SemanticScope and
// Summary are computed server-side and rendered verbatim.
type Overlap struct {
	UserName      string   `json:"user_name"`
	DeviceName    string   `json:"device_name,omitempty"`
	SemanticScope string   `json:"semantic_scope,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Files         []string `json:"files,omitempty"`
}

// LogUploadRequest is the body for POST /api/v1/logs.
type LogUploadRequest struct {
	Logs []logging.BufferedEntry `json:"logs"`
}

type startSessionData struct {
	SessionID string `json:"session_id"`
}

type checkData struct {
	Overlaps []Overlap `json:"overlaps"`
}

// envelope is the server's uniform response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}
