package service

import (
	"context"
	"testing"

	"dmserver/internal/domain"
	"dmserver/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type broadcastCall struct {
	roomID string
	event  string
}

type fakeBroadcaster struct {
	calls    []broadcastCall
	payloads []any
}

func (f *fakeBroadcaster) Broadcast(roomID, event string, payload any) {
	f.calls = append(f.calls, broadcastCall{roomID: roomID, event: event})
	f.payloads = append(f.payloads, payload)
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	st := setupStore(t)
	chats := NewChatService(st)
	messages := NewMessageService(st)
	fake := &fakeBroadcaster{}
	delivery := NewDelivery(chats, messages, fake)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")
	chat := createChat(t, st, alice.ID, bob.ID)

	msg, err := delivery.Send(ctx, alice.ID, chat.ID, "hello bob")
	require.NoError(t, err)
	require.Equal(t, "hello bob", msg.Content)

	// The message is durable independent of any broadcast.
	stored, err := messages.ListOrdered(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, msg.ID, stored[0].ID)

	// One chat-room fanout, then a chat-list nudge to each participant.
	require.Equal(t, []broadcastCall{
		{roomID: chat.ID.String(), event: EventReceiveMessage},
		{roomID: chat.UserAID.String(), event: EventChatUpdated},
		{roomID: chat.UserBID.String(), event: EventChatUpdated},
	}, fake.calls)

	payload, ok := fake.payloads[0].(dto.MessageResponse)
	require.True(t, ok, "chat-room payload type: %T", fake.payloads[0])
	require.Equal(t, "hello bob", payload.Content)
	require.Equal(t, "alice", payload.Sender.Name)

	update, ok := fake.payloads[1].(dto.ChatUpdate)
	require.True(t, ok, "chat-update payload type: %T", fake.payloads[1])
	require.Equal(t, chat.ID.String(), update.ChatID)
}

func TestSendRejectsNonParticipant(t *testing.T) {
	st := setupStore(t)
	chats := NewChatService(st)
	messages := NewMessageService(st)
	fake := &fakeBroadcaster{}
	delivery := NewDelivery(chats, messages, fake)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")
	mallory := createUser(t, st, "mallory", "mallory@x.com")
	chat := createChat(t, st, alice.ID, bob.ID)

	_, err := delivery.Send(ctx, mallory.ID, chat.ID, "let me in")
	require.ErrorIs(t, err, domain.ErrNotParticipant)
	require.Empty(t, fake.calls)

	stored, err := messages.ListOrdered(ctx, chat.ID)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSendFailedAppendBroadcastsNothing(t *testing.T) {
	st := setupStore(t)
	chats := NewChatService(st)
	messages := NewMessageService(st)
	fake := &fakeBroadcaster{}
	delivery := NewDelivery(chats, messages, fake)
	ctx := context.Background()

	alice := createUser(t, st, "alice", "alice@x.com")
	bob := createUser(t, st, "bob", "bob@x.com")
	chat := createChat(t, st, alice.ID, bob.ID)

	_, err := delivery.Send(ctx, alice.ID, chat.ID, "   ")
	require.ErrorIs(t, err, domain.ErrEmptyContent)
	require.Empty(t, fake.calls)
}

func TestSendUnknownChat(t *testing.T) {
	st := setupStore(t)
	fake := &fakeBroadcaster{}
	delivery := NewDelivery(NewChatService(st), NewMessageService(st), fake)

	alice := createUser(t, st, "alice", "alice@x.com")

	_, err := delivery.Send(context.Background(), alice.ID, uuid.New(), "hi")
	require.ErrorIs(t, err, domain.ErrChatNotFound)
	require.Empty(t, fake.calls)
}
