package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
)

// notificationPageSize caps the notification history to the most recent
// entries; there is no pagination.
const notificationPageSize = 30

type Notification struct {
	notifStore model.NotificationStore
	userStore  model.UserStore
	logger     *logger.Logger
}

func NewNotification(
	notifStore model.NotificationStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Notification {
	return &Notification{
		notifStore: notifStore,
		userStore:  userStore,
		logger:     logger,
	}
}

// List returns the user's most recent notifications, newest first, each
// annotated with the acting user's username when it still resolves.
func (s *Notification) List(ctx context.Context, userID int64) ([]model.NotificationView, error) {
	notifs, err := s.notifStore.NotificationsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	slices.SortStableFunc(notifs, func(a, b model.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(notifs) > notificationPageSize {
		notifs = notifs[:notificationPageSize]
	}

	views := make([]model.NotificationView, 0, len(notifs))
	for _, n := range notifs {
		view := model.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			PostID:    n.PostID,
			CommentID: n.CommentID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if actor, err := s.userStore.UserByID(ctx, n.ActorID); err == nil {
			view.ActorUsername = actor.Username
		}
		views = append(views, view)
	}

	return views, nil
}

// MarkAllRead flips the read flag on every notification the user has
// right now; later notifications are unaffected.
func (s *Notification) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notifStore.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("Notification service: failed to mark read",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
