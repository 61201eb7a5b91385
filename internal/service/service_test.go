package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/sociable/internal/model"
	"github.com/dkovalev/sociable/internal/store"
	"github.com/dkovalev/sociable/internal/testutil"
	"github.com/dkovalev/sociable/internal/token"
)

// captureNotifier records deliveries so tests can consume real codes.
type captureNotifier struct {
	mu    sync.Mutex
	sent  []capturedCode
	ready chan capturedCode
}

type capturedCode struct {
	Channel     model.Channel
	Destination string
	Code        string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{ready: make(chan capturedCode, 16)}
}

func (n *captureNotifier) Send(ctx context.Context, channel model.Channel, destination, code string) error {
	n.mu.Lock()
	n.sent = append(n.sent, capturedCode{channel, destination, code})
	n.mu.Unlock()
	n.ready <- capturedCode{channel, destination, code}
	return nil
}

// wait blocks until the next fire-and-forget delivery lands.
func (n *captureNotifier) wait(t *testing.T) capturedCode {
	t.Helper()
	select {
	case c := <-n.ready:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a verification code")
		return capturedCode{}
	}
}

type env struct {
	store         *store.Store
	notifier      *captureNotifier
	auth          *Auth
	verification  *Verification
	social        *Social
	feed          *Feed
	notifications *Notification
	messages      *Message
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := testutil.MakeNoopLogger()
	notif := newCaptureNotifier()

	verification := NewVerification(db, db, notif, log)
	social := NewSocial(db, db, db, log)

	return &env{
		store:         db,
		notifier:      notif,
		auth:          NewAuth(db, db, verification, social, token.NewJWT("test-secret"), log),
		verification:  verification,
		social:        social,
		feed:          NewFeed(db, db, db, db, log),
		notifications: NewNotification(db, db, log),
		messages:      NewMessage(db, db, log),
	}
}

// register creates a verified account ready to act, returning its id.
func (e *env) register(t *testing.T, email, username string) int64 {
	t.Helper()
	ctx := context.Background()

	result, err := e.auth.Register(ctx, RegisterParams{
		Email:            email,
		Username:         username,
		Password:         "sekrit123",
		Consent:          true,
		PreferredChannel: model.ChannelEmail,
	})
	require.NoError(t, err)

	code := e.notifier.wait(t)
	require.NoError(t, e.verification.Consume(ctx, result.UserID, model.ChannelEmail, code.Code))

	return result.UserID
}
