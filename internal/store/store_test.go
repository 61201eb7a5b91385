package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/sociable/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func testUser(email, username string) model.User {
	return model.User{
		Email:        email,
		Username:     username,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
}

func TestOpen_FirstRunWritesEmptySnapshot(t *testing.T) {
	_, path := openTestStore(t)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "users")
	assert.Contains(t, doc, "counters")

	// The temp file from the atomic rename must not linger.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	s, err := Open(path)
	require.NoError(t, err)

	alice, err := s.CreateUser(ctx, testUser("alice@x.com", "alice"))
	require.NoError(t, err)
	post, err := s.CreatePost(ctx, model.Post{UserID: alice.ID, Content: "hello", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.UserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	posts, err := reopened.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	// Counters persist, so a new allocation continues the sequence.
	bob, err := reopened.CreateUser(ctx, testUser("bob@x.com", "bob"))
	require.NoError(t, err)
	assert.Equal(t, alice.ID+1, bob.ID)
}

func TestOpen_OlderSnapshotDefaultsMissingFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	// A snapshot from before messages and verification flags existed.
	older := `{
		"users": [{"id": 3, "email": "old@x.com", "username": "old", "passwordHash": "h"}],
		"counters": {"users": 3}
	}`
	require.NoError(t, os.WriteFile(path, []byte(older), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	user, err := s.UserByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.False(t, user.PhoneVerified)
	assert.Zero(t, user.CreatedAt)

	messages, err := s.MessagesInvolving(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, messages)

	next, err := s.CreateUser(ctx, testUser("new@x.com", "new"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), next.ID)
}

func TestStore_CreateUser_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	_, err := s.CreateUser(ctx, testUser("alice@x.com", "alice"))
	require.NoError(t, err)

	var conflict *model.ConflictError
	_, err = s.CreateUser(ctx, testUser("alice@x.com", "other"))
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	_, err = s.CreateUser(ctx, testUser("other@x.com", "alice"))
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
}

func TestStore_UpdateUser_ReindexesAndConflicts(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	alice, err := s.CreateUser(ctx, testUser("alice@x.com", "alice"))
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, testUser("bob@x.com", "bob"))
	require.NoError(t, err)

	alice.Username = "bob"
	var conflict *model.ConflictError
	_, err = s.UpdateUser(ctx, alice)
	require.ErrorAs(t, err, &conflict)

	alice.Username = "alice2"
	updated, err := s.UpdateUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	// The old username is free again.
	carol, err := s.CreateUser(ctx, testUser("carol@x.com", "alice"))
	require.NoError(t, err)
	assert.NotZero(t, carol.ID)
}

func TestStore_ToggleFollow_Involution(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	edge := model.Follow{FollowerID: 1, FollowingID: 2, CreatedAt: time.Now()}
	notif := &model.Notification{UserID: 2, Type: model.NotificationFollow, ActorID: 1, CreatedAt: time.Now()}

	following, err := s.ToggleFollow(ctx, edge, notif)
	require.NoError(t, err)
	assert.True(t, following)

	exists, err := s.FollowExists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	notifs, err := s.NotificationsFor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, int64(1), notifs[0].ID)

	// Toggle back: edge gone, notification kept, none added.
	following, err = s.ToggleFollow(ctx, edge, notif)
	require.NoError(t, err)
	assert.False(t, following)

	exists, err = s.FollowExists(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	notifs, err = s.NotificationsFor(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, notifs, 1)

	count, err := s.CountFollowers(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_ToggleLike_Involution(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	like := model.Like{PostID: 7, UserID: 1, CreatedAt: time.Now()}

	liked, err := s.ToggleLike(ctx, like, nil)
	require.NoError(t, err)
	assert.True(t, liked)

	has, err := s.HasLiked(ctx, 7, 1)
	require.NoError(t, err)
	assert.True(t, has)

	liked, err = s.ToggleLike(ctx, like, nil)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err := s.CountLikes(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_CreateComment_FillsNotificationCommentID(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	comment, err := s.CreateComment(ctx, model.Comment{
		PostID:    1,
		UserID:    2,
		Content:   "hi",
		CreatedAt: time.Now(),
	}, &model.Notification{UserID: 3, Type: model.NotificationComment, ActorID: 2, PostID: 1, CreatedAt: time.Now()})
	require.NoError(t, err)

	notifs, err := s.NotificationsFor(ctx, 3)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, comment.ID, notifs[0].CommentID)
}

func TestStore_PutVerificationCode_ReplacesPair(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	first, err := s.PutVerificationCode(ctx, model.VerificationCode{
		UserID:    1,
		Channel:   model.ChannelEmail,
		CodeHash:  "h1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	second, err := s.PutVerificationCode(ctx, model.VerificationCode{
		UserID:    1,
		Channel:   model.ChannelEmail,
		CodeHash:  "h2",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)

	// A code on the other channel is untouched by the replacement.
	_, err = s.PutVerificationCode(ctx, model.VerificationCode{
		UserID:    1,
		Channel:   model.ChannelSMS,
		CodeHash:  "h3",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	got, err := s.VerificationCodeFor(ctx, 1, model.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.CodeHash)

	got, err = s.VerificationCodeFor(ctx, 1, model.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, "h3", got.CodeHash)
}

func TestStore_ConsumeVerificationCode(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	user, err := s.CreateUser(ctx, testUser("alice@x.com", "alice"))
	require.NoError(t, err)

	code, err := s.PutVerificationCode(ctx, model.VerificationCode{
		UserID:    user.ID,
		Channel:   model.ChannelEmail,
		CodeHash:  "h",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, s.ConsumeVerificationCode(ctx, code.ID, user.ID, model.ChannelEmail))

	updated, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)

	_, err = s.VerificationCodeFor(ctx, user.ID, model.ChannelEmail)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = s.ConsumeVerificationCode(ctx, code.ID, user.ID, model.ChannelEmail)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.ToggleFollow(ctx, model.Follow{FollowerID: 1, FollowingID: 2, CreatedAt: time.Now()},
			&model.Notification{UserID: 2, Type: model.NotificationFollow, ActorID: 1, CreatedAt: time.Now()})
		require.NoError(t, err)
		_, err = s.ToggleFollow(ctx, model.Follow{FollowerID: 1, FollowingID: 2, CreatedAt: time.Now()}, nil)
		require.NoError(t, err)
	}

	require.NoError(t, s.MarkAllRead(ctx, 2))

	notifs, err := s.NotificationsFor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, notifs, 3)
	for _, n := range notifs {
		assert.True(t, n.IsRead)
	}
}
