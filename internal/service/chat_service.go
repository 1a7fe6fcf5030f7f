package service

import (
	"context"
	"errors"
	"time"

	"dmserver/internal/domain"
	"dmserver/internal/store"

	"github.com/google/uuid"
)

// ChatService resolves the unique pairwise chat between two users.
type ChatService struct {
	store *store.Store
}

func NewChatService(st *store.Store) *ChatService {
	return &ChatService{store: st}
}

// ResolveOrCreate finds the chat between requester and other, creating it on
// first contact. The lookup treats the pair as unordered. Two simultaneous
// first-contact requests race on the pair's unique index; the loser retries
// the lookup and returns the winner's chat.
func (c *ChatService) ResolveOrCreate(ctx context.Context, requesterID, otherID domain.UserID) (*domain.Chat, error) {
	if otherID == requesterID {
		return nil, domain.ErrSelfChat
	}
	if _, err := c.store.Users().GetByID(ctx, otherID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	chat, err := c.store.Chats().GetByPair(ctx, requesterID, otherID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	fresh := &domain.Chat{
		ID:        uuid.New(),
		UserAID:   requesterID,
		UserBID:   otherID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Chats().Create(ctx, fresh); err != nil {
		if store.IsDuplicateKey(err) {
			return c.store.Chats().GetByPair(ctx, requesterID, otherID)
		}
		return nil, err
	}
	// Reload so participants come back populated.
	return c.store.Chats().GetByPair(ctx, requesterID, otherID)
}

// Get returns a chat with its participants, or domain.ErrChatNotFound.
func (c *ChatService) Get(ctx context.Context, chatID domain.ChatID) (*domain.Chat, error) {
	chat, err := c.store.Chats().GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

// ChatWithLastMessage pairs a chat with its most recent message, if any.
type ChatWithLastMessage struct {
	Chat        domain.Chat
	LastMessage *domain.Message
}

// ListForUser returns the user's chats by last activity, newest first, each
// annotated with the last message for chat-list rendering.
func (c *ChatService) ListForUser(ctx context.Context, userID domain.UserID) ([]ChatWithLastMessage, error) {
	chats, err := c.store.Chats().ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ChatWithLastMessage, 0, len(chats))
	for _, chat := range chats {
		last, err := c.store.Messages().LastForChat(ctx, chat.ID)
		if err != nil {
			if !errors.Is(err, store.ErrRecordNotFound) {
				return nil, err
			}
			last = nil
		}
		out = append(out, ChatWithLastMessage{Chat: chat, LastMessage: last})
	}
	return out, nil
}
