package store

import (
	"context"
	"slices"

	"github.com/dkovalev/sociable/internal/model"
)

var _ model.FollowStore = (*Store)(nil)

// ToggleFollow removes the edge if it exists and inserts it otherwise.
// On insert the optional notification is appended in the same commit; on
// removal it is ignored.
func (s *Store) ToggleFollow(ctx context.Context, follow model.Follow, notif *model.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{follow.FollowerID, follow.FollowingID}
	if _, ok := s.followIdx[key]; ok {
		s.data.Follows = slices.DeleteFunc(s.data.Follows, func(f model.Follow) bool {
			return f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID
		})
		delete(s.followIdx, key)
		if err := s.persistLocked(); err != nil {
			return false, err
		}
		return false, nil
	}

	s.data.Follows = append(s.data.Follows, follow)
	s.followIdx[key] = struct{}{}
	if notif != nil {
		s.appendNotificationLocked(*notif)
	}

	if err := s.persistLocked(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store) FollowExists(ctx context.Context, followerID, followingID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.followIdx[followKey{followerID, followingID}]
	return ok, nil
}

func (s *Store) CountFollowers(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, f := range s.data.Follows {
		if f.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountFollowing(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, f := range s.data.Follows {
		if f.FollowerID == userID {
			count++
		}
	}
	return count, nil
}
