package domain

import "time"

// Message is immutable once created. IDs are UUIDv7, so the
// (created_at, id) order is stable even for same-timestamp writes.
type Message struct {
	ID       MessageID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID   ChatID    `gorm:"type:uuid;not null;index" json:"chatId"`
	SenderID UserID    `gorm:"type:uuid;not null" json:"senderId"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`

	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }
