package model

import (
	"context"
	"time"
)

// MessageStore defines persistence operations for direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, message Message, notif *Notification) (Message, error)
	MessagesBetween(ctx context.Context, userID, partnerID int64) ([]Message, error)
	MessagesInvolving(ctx context.Context, userID int64) ([]Message, error)
}

// Message is a direct message between two users.
type Message struct {
	ID        int64     `json:"id"`
	FromID    int64     `json:"fromId"`
	ToID      int64     `json:"toId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation pairs a counterparty with the most recent message
// exchanged with them. It is derived, never stored.
type Conversation struct {
	User        UserPublic `json:"user"`
	LastMessage Message    `json:"lastMessage"`
}
