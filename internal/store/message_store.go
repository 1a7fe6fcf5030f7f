package store

import (
	"context"
	"errors"

	"dmserver/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStore struct{ db *gorm.DB }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s.DB} }

func (m *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = newOrderedID()
	}
	return m.db.WithContext(ctx).Omit("Sender").Create(msg).Error
}

func (m *MessageStore) GetByID(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	var msg domain.Message
	err := m.db.WithContext(ctx).Preload("Sender").First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListByChat returns every message of a chat in the invariant total order.
// Senders are preloaded in a single extra query, not one per row.
func (m *MessageStore) ListByChat(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	var msgs []domain.Message
	err := m.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (m *MessageStore) LastForChat(ctx context.Context, chatID domain.ChatID) (*domain.Message, error) {
	var msg domain.Message
	err := m.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// newOrderedID prefers UUIDv7 so message ids sort in creation order.
func newOrderedID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
