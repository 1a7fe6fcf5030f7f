package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dmserver/internal/domain"
	"dmserver/internal/store"
)

// MessageService is the durable ledger: it appends messages to a chat and
// reads them back in their total order.
type MessageService struct {
	store *store.Store
	now   func() time.Time
}

func NewMessageService(st *store.Store) *MessageService {
	return &MessageService{store: st, now: time.Now}
}

// Append durably writes a message. The sender must be one of the chat's two
// participants even though the caller has already authenticated it, as a
// guard against spoofed authorship.
func (m *MessageService) Append(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	chat, err := m.store.Chats().GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, domain.ErrNotParticipant
	}

	msg := &domain.Message{
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Messages().Create(ctx, msg); err != nil {
		return nil, err
	}

	// Best effort: the message row is the authoritative record, a failed
	// last-activity touch must not fail the append.
	if err := m.store.Chats().Touch(ctx, chatID, msg.CreatedAt); err != nil {
		slog.Warn("chat activity touch failed", "chat_id", chatID, "error", err)
	}

	return m.store.Messages().GetByID(ctx, msg.ID)
}

// ListOrdered returns all messages of a chat in creation order with sender
// info attached. An existing chat with no messages yields an empty slice.
func (m *MessageService) ListOrdered(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	if _, err := m.store.Chats().GetByID(ctx, chatID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return m.store.Messages().ListByChat(ctx, chatID)
}
