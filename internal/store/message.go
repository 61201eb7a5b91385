package store

import (
	"context"

	"github.com/dkovalev/sociable/internal/model"
)

var _ model.MessageStore = (*Store)(nil)

// CreateMessage appends a message and, when set, its notification in one
// commit.
func (s *Store) CreateMessage(ctx context.Context, message model.Message, notif *model.Notification) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Counters.Messages++
	message.ID = s.data.Counters.Messages
	s.data.Messages = append(s.data.Messages, message)

	if notif != nil {
		s.appendNotificationLocked(*notif)
	}

	if err := s.persistLocked(); err != nil {
		return model.Message{}, err
	}

	return message, nil
}

// MessagesBetween returns messages exchanged between the pair in either
// direction, in insertion order.
func (s *Store) MessagesBetween(ctx context.Context, userID, partnerID int64) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []model.Message
	for _, m := range s.data.Messages {
		if (m.FromID == userID && m.ToID == partnerID) || (m.FromID == partnerID && m.ToID == userID) {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// MessagesInvolving returns every message the user sent or received, in
// insertion order.
func (s *Store) MessagesInvolving(ctx context.Context, userID int64) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []model.Message
	for _, m := range s.data.Messages {
		if m.FromID == userID || m.ToID == userID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}
