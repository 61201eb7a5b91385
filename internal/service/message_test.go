package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/sociable/internal/model"
)

func TestMessage_Send_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")
	bobID := e.register(t, "bob@x.com", "bob")

	_, err := e.messages.Send(ctx, aliceID, bobID, "   ")
	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = e.messages.Send(ctx, aliceID, 999, "hello")
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMessage_Send_NotifiesRecipient(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")
	bobID := e.register(t, "bob@x.com", "bob")

	_, err := e.messages.Send(ctx, aliceID, bobID, "hi bob")
	require.NoError(t, err)

	notifs, err := e.notifications.List(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.NotificationMessage, notifs[0].Type)
	assert.Equal(t, "alice", notifs[0].ActorUsername)
}

func TestMessage_Send_SelfNoNotification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")

	_, err := e.messages.Send(ctx, aliceID, aliceID, "note to self")
	require.NoError(t, err)

	notifs, err := e.notifications.List(ctx, aliceID)
	require.NoError(t, err)
	assert.Empty(t, notifs)
}

func TestMessage_ThreadAndConversations_Scenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")
	bobID := e.register(t, "bob@x.com", "bob")

	for _, content := range []string{"first", "second", "third"} {
		_, err := e.messages.Send(ctx, aliceID, bobID, content)
		require.NoError(t, err)
	}

	thread, err := e.messages.Thread(ctx, aliceID, bobID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "first", thread[0].Content)
	assert.Equal(t, "third", thread[2].Content)

	// Both directions appear in the partner's view of the thread.
	reply, err := e.messages.Send(ctx, bobID, aliceID, "got it")
	require.NoError(t, err)
	thread, err = e.messages.Thread(ctx, bobID, aliceID)
	require.NoError(t, err)
	require.Len(t, thread, 4)
	assert.Equal(t, reply.ID, thread[3].ID)

	convs, err := e.messages.Conversations(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, bobID, convs[0].User.ID)
	assert.Equal(t, reply.ID, convs[0].LastMessage.ID)
}

func TestMessage_Conversations_OrderedByRecency(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")
	bobID := e.register(t, "bob@x.com", "bob")
	carolID := e.register(t, "carol@x.com", "carol")

	base := time.Now().Truncate(time.Second)
	for _, m := range []model.Message{
		{FromID: aliceID, ToID: bobID, Content: "to bob", CreatedAt: base.Add(-2 * time.Hour)},
		{FromID: carolID, ToID: aliceID, Content: "from carol", CreatedAt: base.Add(-time.Hour)},
		{FromID: aliceID, ToID: bobID, Content: "to bob again", CreatedAt: base},
	} {
		_, err := e.store.CreateMessage(ctx, m, nil)
		require.NoError(t, err)
	}

	convs, err := e.messages.Conversations(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, bobID, convs[0].User.ID)
	assert.Equal(t, "to bob again", convs[0].LastMessage.Content)
	assert.Equal(t, carolID, convs[1].User.ID)
}

func TestMessage_Conversations_UnresolvedPartnerPlaceholder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.register(t, "alice@x.com", "alice")

	_, err := e.store.CreateMessage(ctx, model.Message{
		FromID:    777,
		ToID:      aliceID,
		Content:   "ghost",
		CreatedAt: time.Now(),
	}, nil)
	require.NoError(t, err)

	convs, err := e.messages.Conversations(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(777), convs[0].User.ID)
	assert.Equal(t, "unknown", convs[0].User.Username)
}
