package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ChatID = uuid.UUID
type MessageID = uuid.UUID
