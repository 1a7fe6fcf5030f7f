package dto

import (
	"time"

	"dmserver/internal/domain"
)

type SendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Sender    UserInfo  `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		ChatID:    m.ChatID.String(),
		Sender:    NewUserInfo(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// ChatUpdate is broadcast to both participants' user rooms whenever a chat
// gains a new message, so connected clients can refresh their chat list.
type ChatUpdate struct {
	ChatID  string          `json:"chatId"`
	Message MessageResponse `json:"message"`
}
