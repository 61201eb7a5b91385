package store

import (
	"context"

	"github.com/dkovalev/sociable/internal/model"
)

var _ model.NotificationStore = (*Store)(nil)

// appendNotificationLocked allocates an id and appends the record. It is
// only reachable through the compound mutators, which hold the write
// lock and persist afterwards.
func (s *Store) appendNotificationLocked(n model.Notification) {
	s.data.Counters.Notifications++
	n.ID = s.data.Counters.Notifications
	s.data.Notifications = append(s.data.Notifications, n)
}

// NotificationsFor returns all of the user's notifications in insertion
// order.
func (s *Store) NotificationsFor(ctx context.Context, userID int64) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notifs []model.Notification
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			notifs = append(notifs, n)
		}
	}
	return notifs, nil
}

// MarkAllRead flips the read flag on every notification belonging to the
// user.
func (s *Store) MarkAllRead(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Notifications {
		if s.data.Notifications[i].UserID == userID {
			s.data.Notifications[i].IsRead = true
		}
	}

	return s.persistLocked()
}
