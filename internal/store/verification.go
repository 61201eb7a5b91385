package store

import (
	"context"
	"slices"

	"github.com/dkovalev/sociable/internal/model"
)

var _ model.CodeStore = (*Store)(nil)

// PutVerificationCode stores a new code, removing any prior unconsumed
// code for the same (user, channel) in the same commit.
func (s *Store) PutVerificationCode(ctx context.Context, code model.VerificationCode) (model.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.VerificationCodes = slices.DeleteFunc(s.data.VerificationCodes, func(c model.VerificationCode) bool {
		return c.UserID == code.UserID && c.Channel == code.Channel
	})

	s.data.Counters.VerificationCodes++
	code.ID = s.data.Counters.VerificationCodes
	s.data.VerificationCodes = append(s.data.VerificationCodes, code)

	if err := s.persistLocked(); err != nil {
		return model.VerificationCode{}, err
	}

	return code, nil
}

// VerificationCodeFor returns the live code for the pair, expired or not.
func (s *Store) VerificationCodeFor(ctx context.Context, userID int64, channel model.Channel) (model.VerificationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.data.VerificationCodes {
		if c.UserID == userID && c.Channel == channel {
			return c, nil
		}
	}
	return model.VerificationCode{}, model.ErrNotFound
}

// ConsumeVerificationCode removes the code and sets the user's verified
// flag for the channel in one commit.
func (s *Store) ConsumeVerificationCode(ctx context.Context, codeID, userID int64, channel model.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.data.VerificationCodes, func(c model.VerificationCode) bool {
		return c.ID == codeID
	})
	if i < 0 {
		return model.ErrNotFound
	}
	ui, ok := s.userIdx[userID]
	if !ok {
		return model.ErrNotFound
	}

	s.data.VerificationCodes = slices.Delete(s.data.VerificationCodes, i, i+1)
	if channel == model.ChannelSMS {
		s.data.Users[ui].PhoneVerified = true
	} else {
		s.data.Users[ui].EmailVerified = true
	}

	return s.persistLocked()
}
