package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/overlaphq/overlap-cli/sessions"
	"github.com/sirupsen/logrus"
)

// startSources are the event kinds session-start acts on. Anything else
// (e.g. clear) is ignored.
var startSources = map[string]bool{
	"startup": true,
	"resume":  true,
	"compact": true,
}

// SessionStart records a pending entry for a new or resumed session.
// Registration with the server is deferred to the first tool use, which
// filters out ghost sessions that never do real work.
func (r *Runtime) SessionStart(ctx context.Context, in *Input) {
	log := r.Logger

	if !startSources[in.Source] {
		log.WithField("source", in.Source).Debug("Skipping, source is not a session start")
		return
	}
	if !r.configured() {
		fmt.Fprintln(r.Stderr, "[Overlap] Not configured. Run 'overlap-hooks config' first")
		return
	}
	if in.TranscriptPath == "" {
		log.Warn("No transcript_path in input, skipping")
		return
	}

	if removed, err := r.Store.GCStale(gcMaxAge); err != nil {
		log.WithField("error", err.Error()).Warn("Session store GC failed")
	} else if removed > 0 {
		log.WithField("removed", removed).Info("Collected stale session entries")
	}

	key := sessions.Key(in.TranscriptPath)
	entry := r.Store.Get(key)

	// Ghost filter: a session that has no entry yet and whose transcript
	// file never materialized gets nothing recorded at all.
	if entry == nil {
		if _, err := os.Stat(in.TranscriptPath); err != nil {
			log.WithField("transcript_path", in.TranscriptPath).
				Info("Transcript file does not exist, ghost session, skipping")
			return
		}
	}

	var info *sessions.Info
	switch {
	case entry.IsActive():
		log.WithField("session_id", entry.OverlapSessionID).
			Info("Session already tracked")
		info = entry.SessionInfo
	case entry.IsPending() && entry.SessionInfo != nil:
		// Environment was already captured; never probe twice per entry.
		info = entry.SessionInfo
	default:
		env := r.Probe(ctx, in.Cwd)
		info = &sessions.Info{
			SessionID:  in.SessionID,
			DeviceName: env.DeviceName,
			Hostname:   env.Hostname,
			IsRemote:   env.IsRemote,
			Worktree:   in.Cwd,
			RepoName:   env.RepoName,
			RemoteURL:  env.RemoteURL,
			Branch:     env.Branch,
		}

		err := r.Store.Upsert(key, sessions.Update{
			Status:         sessions.StatusPending,
			TranscriptPath: in.TranscriptPath,
			Worktree:       in.Cwd,
			SessionInfo:    info,
		})
		if err != nil {
			log.WithField("error", err.Error()).Error("Failed to record pending session")
			fmt.Fprintf(r.Stderr, "[Overlap] Failed to record session: %v\n", err)
			return
		}
		log.WithFields(logrus.Fields{
			"transcript_path": in.TranscriptPath,
			"source":          in.Source,
		}).Info("Recorded pending session, registration deferred to first tool use")
	}

	workingIn := in.Cwd
	if info != nil && info.RepoName != "" {
		workingIn = info.RepoName
	} else if base := filepath.Base(in.Cwd); base != "" && base != "." {
		workingIn = base
	}

	emitDirective(r.Stdout, Directive{HookSpecificOutput: HookSpecificOutput{
		HookEventName:     "SessionStart",
		AdditionalContext: fmt.Sprintf("[Overlap] Session tracking started. Working in: %s", workingIn),
	}})
}
