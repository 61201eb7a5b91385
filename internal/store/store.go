// Package store implements the persisted snapshot store. It is the
// exclusive owner of all entity collections and ID counters: every
// mutation happens behind one exclusive lock and is durably written to
// the snapshot file before the call returns.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkovalev/sociable/internal/model"
)

type snapshot struct {
	Users             []model.User             `json:"users"`
	Posts             []model.Post             `json:"posts"`
	Comments          []model.Comment          `json:"comments"`
	Likes             []model.Like             `json:"likes"`
	Follows           []model.Follow           `json:"follows"`
	Notifications     []model.Notification     `json:"notifications"`
	VerificationCodes []model.VerificationCode `json:"verificationCodes"`
	Messages          []model.Message          `json:"messages"`
	Counters          counters                 `json:"counters"`
}

// counters hold the per-entity-type ID allocators. They only ever grow,
// including across operations that allocated but failed to commit, so an
// ID is never reused.
type counters struct {
	Users             int64 `json:"users"`
	Posts             int64 `json:"posts"`
	Comments          int64 `json:"comments"`
	Notifications     int64 `json:"notifications"`
	Messages          int64 `json:"messages"`
	VerificationCodes int64 `json:"verificationCodes"`
}

type likeKey struct {
	postID int64
	userID int64
}

type followKey struct {
	followerID  int64
	followingID int64
}

// Store is the single persisted data store. Mutating methods serialize
// behind the write lock and rewrite the snapshot before returning;
// read-only derivations share the read lock.
type Store struct {
	mu   sync.RWMutex
	path string
	data snapshot

	userIdx     map[int64]int
	userByEmail map[string]int64
	userByName  map[string]int64
	postIdx     map[int64]int
	likeIdx     map[likeKey]struct{}
	followIdx   map[followKey]struct{}
}

// Open loads the snapshot at path, creating an empty store on first run.
// Fields absent from an older snapshot default to their zero values.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	}

	s.rebuildIndexes()
	return s, nil
}

// Close flushes the snapshot a final time.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) rebuildIndexes() {
	s.userIdx = make(map[int64]int, len(s.data.Users))
	s.userByEmail = make(map[string]int64, len(s.data.Users))
	s.userByName = make(map[string]int64, len(s.data.Users))
	for i, u := range s.data.Users {
		s.userIdx[u.ID] = i
		s.userByEmail[u.Email] = u.ID
		s.userByName[u.Username] = u.ID
	}

	s.postIdx = make(map[int64]int, len(s.data.Posts))
	for i, p := range s.data.Posts {
		s.postIdx[p.ID] = i
	}

	s.likeIdx = make(map[likeKey]struct{}, len(s.data.Likes))
	for _, l := range s.data.Likes {
		s.likeIdx[likeKey{l.PostID, l.UserID}] = struct{}{}
	}

	s.followIdx = make(map[followKey]struct{}, len(s.data.Follows))
	for _, f := range s.data.Follows {
		s.followIdx[followKey{f.FollowerID, f.FollowingID}] = struct{}{}
	}
}

// persistLocked rewrites the full snapshot. The write goes to a temp
// file that is renamed over the previous snapshot so a crash mid-write
// cannot leave a torn document. Callers must hold the write lock. A
// returned error means the in-memory and on-disk states may have
// diverged; callers treat it as fatal, not as a per-entity failure.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}
