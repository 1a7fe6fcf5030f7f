package store

import (
	"context"
	"errors"
	"time"

	"dmserver/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatStore struct{ db *gorm.DB }

func (s *Store) Chats() *ChatStore { return &ChatStore{db: s.DB} }

// Create normalizes the pair before writing so the composite unique index
// applies to the unordered pair. Callers detect a lost first-contact race
// with IsDuplicateKey.
func (c *ChatStore) Create(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	chat.UserAID, chat.UserBID = domain.NormalizePair(chat.UserAID, chat.UserBID)
	return c.db.WithContext(ctx).Omit("UserA", "UserB").Create(chat).Error
}

func (c *ChatStore) GetByID(ctx context.Context, id domain.ChatID) (*domain.Chat, error) {
	var chat domain.Chat
	err := c.db.WithContext(ctx).
		Preload("UserA").Preload("UserB").
		First(&chat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// GetByPair looks up the chat for an unordered user pair; {B,A} finds a chat
// created as {A,B}.
func (c *ChatStore) GetByPair(ctx context.Context, a, b domain.UserID) (*domain.Chat, error) {
	ua, ub := domain.NormalizePair(a, b)
	var chat domain.Chat
	err := c.db.WithContext(ctx).
		Preload("UserA").Preload("UserB").
		First(&chat, "user_a_id = ? AND user_b_id = ?", ua, ub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (c *ChatStore) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := c.db.WithContext(ctx).
		Preload("UserA").Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

// Touch advances the chat's last-activity timestamp.
func (c *ChatStore) Touch(ctx context.Context, id domain.ChatID, at time.Time) error {
	return c.db.WithContext(ctx).Model(&domain.Chat{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}
