package domain

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("token invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrSelfChat           = errors.New("cannot start chat with yourself")
	ErrNotParticipant     = errors.New("not a participant of this chat")
	ErrEmptyContent       = errors.New("message content is empty")
)
