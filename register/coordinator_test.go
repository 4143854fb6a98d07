package register

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/overlaphq/overlap-cli/api"
	"github.com/overlaphq/overlap-cli/config"
	"github.com/overlaphq/overlap-cli/probe"
	"github.com/overlaphq/overlap-cli/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *sessions.Store
	coord      *Coordinator
	startCalls *atomic.Int32
	lastBody   map[string]interface{}
	transcript string
}

// newFixture wires a coordinator against a fake server that answers
// /sessions/start with a fixed ID and counts calls.
func newFixture(t *testing.T, sessionID string) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)

	f := &fixture{startCalls: &atomic.Int32{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sessions/start" {
			http.NotFound(w, r)
			return
		}
		f.startCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &f.lastBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"session_id": sessionID},
		})
	}))
	t.Cleanup(server.Close)

	f.store = sessions.NewStoreAt(dir)
	client := api.NewClient(&config.Config{
		ServerURL: server.URL,
		TeamToken: "tt",
		UserToken: "ut",
	})
	f.coord = New(f.store, client).WithProbe(func(ctx context.Context, cwd string) probe.Info {
		return probe.Info{Hostname: "probed-host", DeviceName: "probed-device"}
	})

	f.transcript = filepath.Join(dir, "transcript.jsonl")
	require.NoError(t, os.WriteFile(f.transcript, []byte("{}\n"), 0o644))
	return f
}

func TestRegistrationIsIdempotent(t *testing.T) {
	f := newFixture(t, "ovl-1")

	id := f.coord.EnsureRegistered(context.Background(), f.transcript, "host-1", "/work")
	assert.Equal(t, "ovl-1", id)
	assert.Equal(t, int32(1), f.startCalls.Load())

	// Second call finds the active entry and never hits the server.
	id = f.coord.EnsureRegistered(context.Background(), f.transcript, "host-1", "/work")
	assert.Equal(t, "ovl-1", id)
	assert.Equal(t, int32(1), f.startCalls.Load())

	entry := f.store.Get(sessions.Key(f.transcript))
	require.NotNil(t, entry)
	assert.True(t, entry.IsActive())
}

func TestGhostSessionIsNeverRegistered(t *testing.T) {
	f := newFixture(t, "ovl-1")
	missing := filepath.Join(t.TempDir(), "never-written.jsonl")

	for i := 0; i < 3; i++ {
		id := f.coord.EnsureRegistered(context.Background(), missing, "host-1", "/work")
		assert.Empty(t, id)
	}
	assert.Equal(t, int32(0), f.startCalls.Load())
	assert.Nil(t, f.store.Get(sessions.Key(missing)))
}

func TestPendingEntryUsesCapturedSnapshot(t *testing.T) {
	f := newFixture(t, "ovl-2")
	f.coord.WithProbe(func(ctx context.Context, cwd string) probe.Info {
		t.Fatal("probe must not run for an already-pending entry")
		return probe.Info{}
	})

	key := sessions.Key(f.transcript)
	require.NoError(t, f.store.Upsert(key, sessions.Update{
		Status:         sessions.StatusPending,
		TranscriptPath: f.transcript,
		Worktree:       "/captured/worktree",
		SessionInfo: &sessions.Info{
			SessionID:  "host-7",
			DeviceName: "captured-device",
			Hostname:   "captured-host",
			Worktree:   "/captured/worktree",
			RepoName:   "myrepo",
			Branch:     "main",
		},
	}))

	id := f.coord.EnsureRegistered(context.Background(), f.transcript, "host-7", "/other/cwd")
	assert.Equal(t, "ovl-2", id)

	assert.Equal(t, "captured-device", f.lastBody["device_name"])
	assert.Equal(t, "captured-host", f.lastBody["hostname"])
	assert.Equal(t, "/captured/worktree", f.lastBody["worktree"])
	assert.Equal(t, "myrepo", f.lastBody["repo_name"])
}

func TestPendingWithoutSnapshotIsSkipped(t *testing.T) {
	f := newFixture(t, "ovl-3")

	key := sessions.Key(f.transcript)
	require.NoError(t, f.store.Upsert(key, sessions.Update{
		Status:         sessions.StatusPending,
		TranscriptPath: f.transcript,
	}))

	id := f.coord.EnsureRegistered(context.Background(), f.transcript, "host-1", "/work")
	assert.Empty(t, id)
	assert.Equal(t, int32(0), f.startCalls.Load())
}

func TestEmptyServerSessionIDIsNotPersisted(t *testing.T) {
	f := newFixture(t, "")

	id := f.coord.EnsureRegistered(context.Background(), f.transcript, "host-1", "/work")
	assert.Empty(t, id)

	// The entry stays pending so a later hook can retry registration.
	entry := f.store.Get(sessions.Key(f.transcript))
	require.NotNil(t, entry)
	assert.True(t, entry.IsPending())
}

func TestServerFailureLeavesEntryPending(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OVERLAP_CONFIG_DIR", dir)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "nope"}`))
	}))
	defer server.Close()

	store := sessions.NewStoreAt(dir)
	client := api.NewClient(&config.Config{ServerURL: server.URL, TeamToken: "tt", UserToken: "ut"})
	coord := New(store, client).WithProbe(func(ctx context.Context, cwd string) probe.Info {
		return probe.Info{Hostname: "h", DeviceName: "d"}
	})

	transcript := filepath.Join(dir, "t.jsonl")
	require.NoError(t, os.WriteFile(transcript, []byte("{}\n"), 0o644))

	id := coord.EnsureRegistered(context.Background(), transcript, "host-1", "/work")
	assert.Empty(t, id)
	require.NotNil(t, store.Get(sessions.Key(transcript)))
	assert.True(t, store.Get(sessions.Key(transcript)).IsPending())

	// The next hook retries against the same pending entry.
	id = coord.EnsureRegistered(context.Background(), transcript, "host-1", "/work")
	assert.Empty(t, id)
	assert.Equal(t, int32(2), calls.Load())
}
