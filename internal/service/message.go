package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
)

type Message struct {
	messageStore model.MessageStore
	userStore    model.UserStore
	logger       *logger.Logger
}

func NewMessage(
	messageStore model.MessageStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Message {
	return &Message{
		messageStore: messageStore,
		userStore:    userStore,
		logger:       logger,
	}
}

// Send stores a direct message to an existing user and notifies the
// recipient unless sender and recipient are the same user.
func (s *Message) Send(ctx context.Context, fromID, toID int64, content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, model.NewErrValidation("content is required")
	}

	if _, err := s.userStore.UserByID(ctx, toID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Message{}, model.NewErrUserNotFound(toID)
		}
		return model.Message{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	now := time.Now()
	var notif *model.Notification
	if toID != fromID {
		notif = &model.Notification{
			UserID:    toID,
			Type:      model.NotificationMessage,
			ActorID:   fromID,
			Message:   "New message",
			CreatedAt: now,
		}
	}

	message, err := s.messageStore.CreateMessage(ctx, model.Message{
		FromID:    fromID,
		ToID:      toID,
		Content:   content,
		CreatedAt: now,
	}, notif)
	if err != nil {
		s.logger.Error("Message service: failed to store message",
			"from_id", fromID,
			"to_id", toID,
			"error", err.Error())
		return model.Message{}, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// Thread returns all messages exchanged between the pair in either
// direction, oldest first.
func (s *Message) Thread(ctx context.Context, userID, partnerID int64) ([]model.Message, error) {
	messages, err := s.messageStore.MessagesBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	slices.SortStableFunc(messages, func(a, b model.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return messages, nil
}

// Conversations derives the user's distinct counterparties, each with
// the most recent message between the pair, ordered by that message's
// time descending. A partner that no longer resolves is rendered with a
// placeholder identity rather than omitted.
func (s *Message) Conversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	messages, err := s.messageStore.MessagesInvolving(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	last := make(map[int64]model.Message)
	var order []int64
	for _, m := range messages {
		partnerID := m.ToID
		if m.ToID == userID {
			partnerID = m.FromID
		}
		prev, seen := last[partnerID]
		if !seen {
			order = append(order, partnerID)
		}
		if !seen || !m.CreatedAt.Before(prev.CreatedAt) {
			last[partnerID] = m
		}
	}

	conversations := make([]model.Conversation, 0, len(order))
	for _, partnerID := range order {
		conv := model.Conversation{
			User:        model.UserPublic{ID: partnerID, Username: unknownUser},
			LastMessage: last[partnerID],
		}
		if partner, err := s.userStore.UserByID(ctx, partnerID); err == nil {
			conv.User = partner.Public()
		}
		conversations = append(conversations, conv)
	}

	slices.SortStableFunc(conversations, func(a, b model.Conversation) int {
		return b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt)
	})

	return conversations, nil
}
