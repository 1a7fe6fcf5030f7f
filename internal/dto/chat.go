package dto

import (
	"time"

	"dmserver/internal/domain"
)

type CreateChatRequest struct {
	OtherUserID string `json:"otherUserId"`
}

type ChatResponse struct {
	ID           string           `json:"id"`
	Participants []UserInfo       `json:"participants"`
	LastMessage  *MessageResponse `json:"lastMessage,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewChatResponse(c domain.Chat, last *domain.Message) ChatResponse {
	resp := ChatResponse{
		ID:           c.ID.String(),
		Participants: []UserInfo{NewUserInfo(c.UserA), NewUserInfo(c.UserB)},
		UpdatedAt:    c.UpdatedAt,
	}
	if last != nil {
		m := NewMessageResponse(*last)
		resp.LastMessage = &m
	}
	return resp
}
