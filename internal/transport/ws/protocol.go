package ws

import (
	"dmserver/internal/dto"
	"dmserver/internal/presence"
)

// Inbound events. The envelope is a small tagged variant validated here at
// the boundary; malformed or unknown events are logged and dropped, never
// answered.
const (
	eventJoin        = "join"
	eventJoinChat    = "joinChat"
	eventSendMessage = "sendMessage"
)

type envelope struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	ChatID  string `json:"chatId,omitempty"`
	Content string `json:"content,omitempty"`
}

// serverEvent is the outbound frame shape:
// {"type":"receiveMessage","message":{...}} and
// {"type":"chatUpdated","chatId":...,"message":{...}}.
type serverEvent struct {
	Type    string               `json:"type"`
	ChatID  string               `json:"chatId,omitempty"`
	Message *dto.MessageResponse `json:"message,omitempty"`
}

func encodeEvent(ev presence.Event) (serverEvent, bool) {
	frame := serverEvent{Type: ev.Name}
	switch p := ev.Payload.(type) {
	case dto.MessageResponse:
		frame.Message = &p
	case dto.ChatUpdate:
		frame.ChatID = p.ChatID
		msg := p.Message
		frame.Message = &msg
	default:
		return serverEvent{}, false
	}
	return frame, true
}
