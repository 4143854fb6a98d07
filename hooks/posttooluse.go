package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/overlaphq/overlap-cli/api"
	"github.com/overlaphq/overlap-cli/errors"
	"github.com/overlaphq/overlap-cli/sessions"
	"github.com/sirupsen/logrus"
)

// PostToolUse sends a heartbeat reporting which files the finished tool
// touched, registering the session lazily on first use.
//
// Reads and writes throttle independently so a burst of reads never
// suppresses a write heartbeat. The throttle is checked before any other
// work: a suppressed invocation does no registration, no subprocess and
// no network call at all.
func (r *Runtime) PostToolUse(ctx context.Context, in *Input) {
	log := r.Logger

	if !r.configured() {
		return
	}
	if in.TranscriptPath == "" {
		log.Debug("No transcript_path in input, skipping")
		return
	}

	isWrite := IsWriteTool(in.ToolName)
	key := sessions.Key(in.TranscriptPath)

	if entry := r.Store.Get(key); entry != nil {
		if last, ok := entry.LastHeartbeat(isWrite); ok {
			if elapsed := time.Since(last); elapsed < throttleWindow {
				log.WithFields(logrus.Fields{
					"tool_name": in.ToolName,
					"is_write":  isWrite,
					"elapsed":   elapsed.Seconds(),
				}).Debug("Heartbeat throttled client-side")
				return
			}
		}
	}

	sessionID := r.Coordinator.EnsureRegistered(ctx, in.TranscriptPath, in.SessionID, in.Cwd)
	if sessionID == "" {
		log.Debug("No Overlap session for this transcript, skipping")
		return
	}
	log = log.WithField("session_id", sessionID)

	paths := ExtractFilePaths(in.ToolName, in.ToolInput)
	if len(paths) == 0 {
		log.WithField("tool_name", in.ToolName).Debug("No file path in tool input, skipping")
		return
	}
	relative := MakeRelativeAll(paths, in.Cwd)

	log.WithFields(logrus.Fields{
		"tool_name":  in.ToolName,
		"file_paths": relative,
		"is_write":   isWrite,
	}).Info("Sending heartbeat")

	req := api.HeartbeatRequest{Files: relative, ToolName: in.ToolName}

	result, err := r.Client.Heartbeat(ctx, sessionID, req, 1)
	if err == nil {
		r.recordHeartbeat(key, isWrite, sessionID, result)
		return
	}

	log.WithField("error", err.Error()).Error("Heartbeat failed")

	if !errors.IsNotFound(err) {
		fmt.Fprintf(r.Stderr, "[Overlap] Heartbeat failed: %v\n", err)
		return
	}

	// The server no longer knows this session (DB reset, session deleted).
	// Clear the local entry, re-register once and retry the heartbeat once
	// against the new id. If re-registration fails, the cleared state makes
	// the next invocation start from scratch.
	log.Warn("Session not found on server, clearing local entry for re-registration")
	if err := r.Store.Delete(key); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to clear local session entry")
	}

	newID := r.Coordinator.EnsureRegistered(ctx, in.TranscriptPath, in.SessionID, in.Cwd)
	if newID == "" {
		fmt.Fprintln(r.Stderr, "[Overlap] Session lost, will re-register on next tool use")
		return
	}

	log.WithField("new_session_id", newID).Info("Re-registered session")
	fmt.Fprintf(r.Stderr, "[Overlap] Session re-registered: %s\n", newID)

	result, err = r.Client.Heartbeat(ctx, newID, req, 0)
	if err != nil {
		log.WithField("error", err.Error()).Error("Heartbeat retry after re-registration failed")
		return
	}
	r.recordHeartbeat(key, isWrite, newID, result)
}

// recordHeartbeat updates the local throttle timestamp for a delivered
// heartbeat. A server-side "throttled" reply leaves the timestamp alone:
// in that case the server owns the true throttle state.
func (r *Runtime) recordHeartbeat(key string, isWrite bool, sessionID string, result api.HeartbeatResult) {
	log := r.Logger.WithField("session_id", sessionID)

	if result.Throttled {
		log.WithField("retry_after", result.RetryAfter).Debug("Heartbeat throttled server-side")
		return
	}

	if err := r.Store.TouchHeartbeat(key, isWrite); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to update heartbeat timestamp")
	}

	if result.Reactivated {
		log.Info("Session reactivated via heartbeat")
		fmt.Fprintf(r.Stderr, "[Overlap] Session reactivated: %s\n", sessionID)
	}

	log.WithField("scope", result.SemanticScope).Info("Heartbeat sent")
}
