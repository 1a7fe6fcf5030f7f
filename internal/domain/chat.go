package domain

import (
	"strings"
	"time"
)

// Chat is the unique pairwise conversation between two users. The pair is
// stored normalized (UserAID sorts before UserBID) so the composite unique
// index holds for the unordered pair: at most one chat survives concurrent
// first-contact requests from either direction.
type Chat struct {
	ID      ChatID `gorm:"type:uuid;primaryKey" json:"id"`
	UserAID UserID `gorm:"type:uuid;not null;uniqueIndex:ux_chats_pair,priority:1" json:"userAId"`
	UserBID UserID `gorm:"type:uuid;not null;uniqueIndex:ux_chats_pair,priority:2" json:"userBId"`

	UserA User `gorm:"foreignKey:UserAID" json:"userA"`
	UserB User `gorm:"foreignKey:UserBID" json:"userB"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	// UpdatedAt is the last-activity timestamp, touched on every new message.
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

// NormalizePair orders an unordered user pair for storage and lookup.
func NormalizePair(a, b UserID) (UserID, UserID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

func (c *Chat) HasParticipant(id UserID) bool {
	return c.UserAID == id || c.UserBID == id
}
