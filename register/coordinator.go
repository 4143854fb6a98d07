// Package register decides whether a hook invocation has, needs, or
// cannot have an Overlap session.
//
// Registration is lazy: session-start only records a pending entry, and
// the first tool-use hook that finds one performs the actual server call.
// Sessions whose transcript file never materializes are never registered
// at all.
package register

import (
	"context"
	"os"

	"github.com/overlaphq/overlap-cli/api"
	"github.com/overlaphq/overlap-cli/logging"
	"github.com/overlaphq/overlap-cli/probe"
	"github.com/overlaphq/overlap-cli/sessions"
	"github.com/sirupsen/logrus"
)

// ProbeFunc gathers environment info for a working directory.
type ProbeFunc func(ctx context.Context, cwd string) probe.Info

// Coordinator performs lazy session registration against the store and
// the server.
type Coordinator struct {
	store  *sessions.Store
	client *api.Client
	probe  ProbeFunc
	logger *logrus.Entry
}

// New builds a coordinator using the real environment probe.
func New(store *sessions.Store, client *api.Client) *Coordinator {
	return &Coordinator{
		store:  store,
		client: client,
		probe:  probe.Collect,
		logger: logging.NewLogger("register"),
	}
}

// WithProbe replaces the environment probe. Used by tests.
func (c *Coordinator) WithProbe(fn ProbeFunc) *Coordinator {
	c.probe = fn
	return c
}

// EnsureRegistered returns the Overlap session ID for a transcript,
// registering it first if needed. It returns "" when no session exists
// and none should be created yet; the caller proceeds without one.
//
// Checked in order, short-circuiting:
//  1. an active entry: return its ID, no network call
//  2. a pending entry: register it from its captured environment snapshot
//  3. no transcript file on disk: ghost session, do nothing
//  4. otherwise: probe the environment, record a pending entry, register it
func (c *Coordinator) EnsureRegistered(ctx context.Context, transcriptPath, hostSessionID, cwd string) string {
	key := sessions.Key(transcriptPath)

	if id, ok := c.store.LookupActive(key); ok {
		return id
	}

	if entry := c.store.Get(key); entry.IsPending() {
		return c.registerPending(ctx, key, entry)
	}

	if _, err := os.Stat(transcriptPath); err != nil {
		c.logger.WithField("transcript_path", transcriptPath).
			Debug("Transcript file does not exist yet, skipping registration")
		return ""
	}

	c.logger.WithField("transcript_path", transcriptPath).
		Info("Transcript exists, gathering session info for registration")

	env := c.probe(ctx, cwd)
	info := &sessions.Info{
		SessionID:  hostSessionID,
		DeviceName: env.DeviceName,
		Hostname:   env.Hostname,
		IsRemote:   env.IsRemote,
		Worktree:   cwd,
		RepoName:   env.RepoName,
		RemoteURL:  env.RemoteURL,
		Branch:     env.Branch,
	}

	err := c.store.Upsert(key, sessions.Update{
		Status:         sessions.StatusPending,
		TranscriptPath: transcriptPath,
		Worktree:       cwd,
		SessionInfo:    info,
	})
	if err != nil {
		c.logger.WithField("error", err.Error()).Error("Failed to persist pending session")
		return ""
	}

	return c.registerPending(ctx, key, c.store.Get(key))
}

// registerPending upgrades a pending entry to active by calling the
// server with the entry's captured snapshot. The upgrade is idempotent
// across processes: two racers both observing pending each call the
// server, and the last store write wins with a single active entry. The
// occasional duplicate remote session is accepted rather than holding the
// store lock across the network call.
func (c *Coordinator) registerPending(ctx context.Context, key string, entry *sessions.Entry) string {
	if entry == nil || entry.SessionInfo == nil {
		c.logger.Debug("Pending entry has no captured session info, skipping")
		return ""
	}

	info := entry.SessionInfo
	worktree := info.Worktree
	if worktree == "" {
		worktree = entry.Worktree
	}

	c.logger.WithField("transcript_path", entry.TranscriptPath).Info("Registering pending session")

	id, err := c.client.StartSession(ctx, api.StartSessionRequest{
		SessionID:  info.SessionID,
		DeviceName: info.DeviceName,
		Hostname:   info.Hostname,
		IsRemote:   info.IsRemote,
		Worktree:   worktree,
		RepoName:   info.RepoName,
		RemoteURL:  info.RemoteURL,
		Branch:     info.Branch,
	})
	if err != nil {
		c.logger.WithField("error", err.Error()).Error("Failed to register pending session")
		return ""
	}
	if id == "" {
		c.logger.Warn("No session_id in server response")
		return ""
	}

	err = c.store.Upsert(key, sessions.Update{
		OverlapSessionID: id,
		Status:           sessions.StatusActive,
		Worktree:         worktree,
	})
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err.Error(),
		}).Error("Failed to persist registered session")
		return ""
	}

	c.logger.WithField("session_id", id).Info("Session registered")
	return id
}
