package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/security"
)

func registerUnverified(t *testing.T, e *env, email, username string, params ...func(*RegisterParams)) int64 {
	t.Helper()

	p := RegisterParams{
		Email:    email,
		Username: username,
		Password: "pw123456",
		Consent:  true,
	}
	for _, fn := range params {
		fn(&p)
	}
	result, err := e.auth.Register(context.Background(), p)
	require.NoError(t, err)
	e.notifier.wait(t)
	return result.UserID
}

func TestVerification_ConsumeCorrectCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	result, err := e.auth.Register(ctx, RegisterParams{
		Email:    "alice@x.com",
		Username: "alice",
		Password: "pw123456",
		Consent:  true,
	})
	require.NoError(t, err)

	code := e.notifier.wait(t)
	require.Len(t, code.Code, 6)
	require.NoError(t, e.verification.Consume(ctx, result.UserID, model.ChannelEmail, code.Code))

	user, err := e.store.UserByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.PhoneVerified)
}

func TestVerification_CodeIsSingleUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "alice@x.com", "alice")

	require.NoError(t, e.verification.IssueCode(ctx, userID, model.ChannelEmail))
	code := e.notifier.wait(t)

	require.NoError(t, e.verification.Consume(ctx, userID, model.ChannelEmail, code.Code))

	err := e.verification.Consume(ctx, userID, model.ChannelEmail, code.Code)
	var verr *model.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.VerificationCodeNotFound, verr.Reason)
}

func TestVerification_WrongCodeMismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "alice@x.com", "alice")

	err := e.verification.Consume(ctx, userID, model.ChannelEmail, "000000x")
	var verr *model.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.VerificationCodeMismatch, verr.Reason)
}

func TestVerification_ExpiredCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "alice@x.com", "alice")

	// Plant a correct but expired code directly in the store.
	hash, err := security.HashPassword("123456")
	require.NoError(t, err)
	_, err = e.store.PutVerificationCode(ctx, model.VerificationCode{
		UserID:    userID,
		Channel:   model.ChannelEmail,
		CodeHash:  hash,
		CreatedAt: time.Now().Add(-11 * time.Minute),
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	err = e.verification.Consume(ctx, userID, model.ChannelEmail, "123456")
	var verr *model.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.VerificationCodeExpired, verr.Reason)

	// The stale record is left in place for later cleanup.
	_, err = e.store.VerificationCodeFor(ctx, userID, model.ChannelEmail)
	require.NoError(t, err)
}

func TestVerification_SecondIssueInvalidatesFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "alice@x.com", "alice")

	require.NoError(t, e.verification.IssueCode(ctx, userID, model.ChannelEmail))
	first := e.notifier.wait(t)
	require.NoError(t, e.verification.IssueCode(ctx, userID, model.ChannelEmail))
	second := e.notifier.wait(t)

	err := e.verification.Consume(ctx, userID, model.ChannelEmail, first.Code)
	// The first code only still passes if both draws came out equal.
	if first.Code != second.Code {
		var verr *model.VerificationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.VerificationCodeMismatch, verr.Reason)
	}

	require.NoError(t, e.verification.Consume(ctx, userID, model.ChannelEmail, second.Code))
}

func TestVerification_IssueSMSWithoutPhone(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "alice@x.com", "alice")

	err := e.verification.IssueCode(ctx, userID, model.ChannelSMS)
	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestVerification_SMSChannelSetsPhoneFlag(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := registerUnverified(t, e, "bob@x.com", "bob", func(p *RegisterParams) {
		p.Phone = "+15550001"
		p.PreferredChannel = model.ChannelSMS
	})

	require.NoError(t, e.verification.IssueCode(ctx, userID, model.ChannelSMS))
	code := e.notifier.wait(t)
	assert.Equal(t, model.ChannelSMS, code.Channel)
	assert.Equal(t, "+15550001", code.Destination)

	require.NoError(t, e.verification.Consume(ctx, userID, model.ChannelSMS, code.Code))

	user, err := e.store.UserByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.PhoneVerified)
	assert.False(t, user.EmailVerified)
}

func TestVerification_UnknownUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var notFound *model.NotFoundError
	err := e.verification.IssueCode(ctx, 42, model.ChannelEmail)
	require.ErrorAs(t, err, &notFound)

	err = e.verification.Consume(ctx, 42, model.ChannelEmail, "123456")
	require.ErrorAs(t, err, &notFound)
}
