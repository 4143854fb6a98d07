package sessions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/overlaphq/overlap-cli/config"
	"github.com/overlaphq/overlap-cli/errors"
)

const (
	sessionsFileName = "sessions.json"
	lockFileName     = "sessions.lock"
)

// Store owns the persisted session map. All mutation goes through its
// locked read-modify-write; nothing else touches sessions.json.
type Store struct {
	dir string
}

// NewStore returns a store rooted at the Overlap config directory.
func NewStore() *Store {
	return NewStoreAt(config.Dir())
}

// NewStoreAt returns a store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) sessionsFile() string {
	return filepath.Join(s.dir, sessionsFileName)
}

// load reads the whole session map. A missing, unreadable or corrupt file
// is an empty map, never an error: the store must not be able to wedge a
// hook.
func (s *Store) load() map[string]*Entry {
	data, err := os.ReadFile(s.sessionsFile())
	if err != nil {
		return make(map[string]*Entry)
	}

	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return make(map[string]*Entry)
	}
	return entries
}

// save writes the whole session map in one operation.
func (s *Store) save(entries map[string]*Entry) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.StoreWrite(s.sessionsFile(), err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.StoreWrite(s.sessionsFile(), err)
	}

	if err := os.WriteFile(s.sessionsFile(), data, 0644); err != nil {
		return errors.StoreWrite(s.sessionsFile(), err)
	}
	return nil
}

// Get returns the entry for a key, in any status, or nil.
func (s *Store) Get(key string) *Entry {
	return s.load()[key]
}

// LookupActive returns the Overlap session ID for a key if the entry is
// active.
func (s *Store) LookupActive(key string) (string, bool) {
	entry := s.Get(key)
	if entry.IsActive() {
		return entry.OverlapSessionID, true
	}
	return "", false
}

// Update describes a merge into an entry. Zero-valued fields are left
// untouched on an existing entry.
type Update struct {
	OverlapSessionID string
	Status           Status
	TranscriptPath   string
	Worktree         string
	SessionInfo      *Info
}

// Upsert merges an update into the entry for key, creating it if absent.
// CreatedAt is set on first write and preserved afterwards.
func (s *Store) Upsert(key string, up Update) error {
	return s.withLock(func() error {
		entries := s.load()

		entry := entries[key]
		if entry == nil {
			entry = &Entry{}
			entries[key] = entry
		}

		if up.OverlapSessionID != "" {
			entry.OverlapSessionID = up.OverlapSessionID
		}
		if up.Status != "" {
			entry.Status = up.Status
		}
		if up.TranscriptPath != "" {
			entry.TranscriptPath = up.TranscriptPath
		}
		if up.Worktree != "" {
			entry.Worktree = up.Worktree
		}
		if up.SessionInfo != nil {
			entry.SessionInfo = up.SessionInfo
		}
		if entry.CreatedAt == "" {
			entry.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
		}

		return s.save(entries)
	})
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	return s.withLock(func() error {
		entries := s.load()
		if _, ok := entries[key]; !ok {
			return nil
		}
		delete(entries, key)
		return s.save(entries)
	})
}

// TouchHeartbeat stamps the write- or read-heartbeat timestamp for key.
// Touching an absent key is a no-op.
func (s *Store) TouchHeartbeat(key string, write bool) error {
	return s.withLock(func() error {
		entries := s.load()
		entry := entries[key]
		if entry == nil {
			return nil
		}

		now := time.Now().UTC().Format(time.RFC3339Nano)
		if write {
			entry.LastWriteHeartbeatAt = now
		} else {
			entry.LastReadHeartbeatAt = now
		}
		return s.save(entries)
	})
}

// GCStale removes entries whose created_at is missing, unparseable, or
// strictly older than maxAge. An entry exactly at the boundary survives.
// Returns the number of entries removed.
func (s *Store) GCStale(maxAge time.Duration) (int, error) {
	return s.gcAt(time.Now().UTC(), maxAge)
}

func (s *Store) gcAt(now time.Time, maxAge time.Duration) (int, error) {
	removed := 0
	err := s.withLock(func() error {
		entries := s.load()
		cutoff := now.Add(-maxAge)

		for key, entry := range entries {
			createdAt, err := time.Parse(time.RFC3339Nano, entry.CreatedAt)
			if err != nil || createdAt.Before(cutoff) {
				delete(entries, key)
				removed++
			}
		}

		if removed == 0 {
			return nil
		}
		return s.save(entries)
	})
	if err != nil {
		removed = 0
	}
	return removed, err
}
