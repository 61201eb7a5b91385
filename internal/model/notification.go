package model

import (
	"context"
	"time"
)

// NotificationType names the action that produced a notification.
type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMessage NotificationType = "message"
)

// NotificationStore defines persistence operations for notifications.
// Records are only ever created as part of a compound store commit, never
// inserted directly by a caller.
type NotificationStore interface {
	NotificationsFor(ctx context.Context, userID int64) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

// Notification is a fan-out record produced as a side effect of another
// user's action. Actor and recipient are never the same user.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Type      NotificationType `json:"type"`
	ActorID   int64            `json:"actorId,omitempty"`
	PostID    int64            `json:"postId,omitempty"`
	CommentID int64            `json:"commentId,omitempty"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationView is a notification annotated with the actor's username
// when the actor still resolves.
type NotificationView struct {
	ID            int64            `json:"id"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message,omitempty"`
	ActorUsername string           `json:"actorUsername,omitempty"`
	PostID        int64            `json:"postId,omitempty"`
	CommentID     int64            `json:"commentId,omitempty"`
	IsRead        bool             `json:"isRead"`
	CreatedAt     time.Time        `json:"createdAt"`
}
