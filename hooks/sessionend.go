package hooks

import (
	"context"
	"fmt"

	"github.com/overlaphq/overlap-cli/sessions"
)

// SessionEnd tells the server the session is over and clears the local
// entry. The server call is best-effort; the local entry is deleted no
// matter what, so local state never outlives the host lifecycle event
// that ended it.
func (r *Runtime) SessionEnd(ctx context.Context, in *Input) {
	log := r.Logger

	if !r.configured() {
		return
	}
	if in.TranscriptPath == "" {
		log.Debug("No transcript_path in input, skipping")
		return
	}

	key := sessions.Key(in.TranscriptPath)
	sessionID, ok := r.Store.LookupActive(key)
	if !ok {
		log.Debug("No tracked session for this transcript")
		return
	}
	log = log.WithField("session_id", sessionID)

	log.Info("Ending session on server")
	if err := r.Client.EndSession(ctx, sessionID); err != nil {
		log.WithField("error", err.Error()).Error("Failed to end session on server")
		fmt.Fprintf(r.Stderr, "[Overlap] Failed to end session: %v\n", err)
	} else {
		log.Info("Session ended")
	}

	if err := r.Store.Delete(key); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to clear local session entry")
		return
	}
	log.Info("Local session mapping cleared")
}
