package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/security"
)

// Verification drives the per-channel one-time-code state machine:
// issuing replaces any live code for the (user, channel) pair, consuming
// flips the matching verified flag. Verified is terminal.
type Verification struct {
	userStore model.UserStore
	codeStore model.CodeStore
	notifier  model.Notifier
	logger    *logger.Logger
}

func NewVerification(
	userStore model.UserStore,
	codeStore model.CodeStore,
	notifier model.Notifier,
	logger *logger.Logger,
) *Verification {
	return &Verification{
		userStore: userStore,
		codeStore: codeStore,
		notifier:  notifier,
		logger:    logger,
	}
}

var codeSpace = big.NewInt(1000000)

// generateCode draws a 6-digit numeric code from the CSPRNG. The code
// gates account access, so a general-purpose PRNG is not good enough.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to draw random code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeChannel(channel model.Channel) model.Channel {
	if channel == model.ChannelSMS {
		return model.ChannelSMS
	}
	return model.ChannelEmail
}

// IssueCode generates a fresh code for the (user, channel) pair,
// invalidating any prior unconsumed code, and hands the plaintext to the
// notifier. Delivery is decoupled from the commit: a notifier failure is
// logged and never observed by the caller.
func (s *Verification) IssueCode(ctx context.Context, userID int64, channel model.Channel) error {
	s.logger.Debug("Verification service: issuing code",
		"user_id", userID,
		"channel", string(channel))

	user, err := s.userStore.UserByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrUserNotFound(userID)
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	channel = normalizeChannel(channel)
	if channel == model.ChannelSMS && user.Phone == "" {
		return model.NewErrValidation("phone number required for sms verification")
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	now := time.Now()
	entry := model.VerificationCode{
		UserID:    user.ID,
		Channel:   channel,
		CodeHash:  hash,
		CreatedAt: now,
		ExpiresAt: now.Add(model.CodeTTL),
	}
	if _, err := s.codeStore.PutVerificationCode(ctx, entry); err != nil {
		s.logger.Error("Verification service: failed to store code",
			"user_id", userID,
			"channel", string(channel),
			"error", err.Error())
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	destination := user.Email
	if channel == model.ChannelSMS {
		destination = user.Phone
	}

	go func() {
		if err := s.notifier.Send(context.Background(), channel, destination, code); err != nil {
			s.logger.Error("Verification service: code delivery failed",
				"user_id", userID,
				"channel", string(channel),
				"error", err.Error())
		}
	}()

	s.logger.Info("Verification service: code issued",
		"user_id", userID,
		"channel", string(channel))

	return nil
}

// Consume checks the submitted code against the live one for the pair
// and, on success, marks the channel verified and removes the code. The
// code is single-use; an expired code is rejected and left for cleanup.
func (s *Verification) Consume(ctx context.Context, userID int64, channel model.Channel, submitted string) error {
	s.logger.Debug("Verification service: consuming code",
		"user_id", userID,
		"channel", string(channel))

	if _, err := s.userStore.UserByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewErrUserNotFound(userID)
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	channel = normalizeChannel(channel)

	code, err := s.codeStore.VerificationCodeFor(ctx, userID, channel)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrCodeNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get verification code: %w", err)
	}

	if code.Expired(time.Now()) {
		return model.NewErrCodeExpired()
	}
	if !security.CheckPassword(submitted, code.CodeHash) {
		return model.NewErrCodeMismatch()
	}

	if err := s.codeStore.ConsumeVerificationCode(ctx, code.ID, userID, channel); err != nil {
		s.logger.Error("Verification service: failed to consume code",
			"user_id", userID,
			"channel", string(channel),
			"error", err.Error())
		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	s.logger.Info("Verification service: channel verified",
		"user_id", userID,
		"channel", string(channel))

	return nil
}
