package service

import (
	"context"
	"sync"

	"dmserver/internal/domain"
	"dmserver/internal/dto"
	"dmserver/internal/observability/metrics"
)

// Event names on the realtime channel.
const (
	EventReceiveMessage = "receiveMessage"
	EventChatUpdated    = "chatUpdated"
)

// Broadcaster is the live-delivery side of a send. presence.Router
// satisfies it.
type Broadcaster interface {
	Broadcast(roomID, event string, payload any)
}

// Delivery reconciles the durable append with the live broadcast: the
// append must complete before any broadcast, and within one chat the
// broadcast order matches the append order. Every send path, REST and
// realtime alike, goes through Send; there is no broadcast-without-persist
// flow.
type Delivery struct {
	chats    *ChatService
	messages *MessageService
	router   Broadcaster

	mu    sync.Mutex
	locks map[domain.ChatID]*sync.Mutex
}

func NewDelivery(chats *ChatService, messages *MessageService, router Broadcaster) *Delivery {
	return &Delivery{
		chats:    chats,
		messages: messages,
		router:   router,
		locks:    make(map[domain.ChatID]*sync.Mutex),
	}
}

// Send validates the requester, appends durably, then broadcasts. A failed
// append propagates to the caller and nothing is broadcast.
func (d *Delivery) Send(ctx context.Context, requesterID domain.UserID, chatID domain.ChatID, content string) (*domain.Message, error) {
	result := "success"
	defer func() {
		metrics.MessagesSentTotal.WithLabelValues(result).Inc()
	}()

	chat, err := d.chats.Get(ctx, chatID)
	if err != nil {
		result = "failure"
		return nil, err
	}
	if !chat.HasParticipant(requesterID) {
		result = "failure"
		return nil, domain.ErrNotParticipant
	}

	// Serialize append+broadcast per chat so live clients observe messages
	// in ledger order.
	lock := d.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	msg, err := d.messages.Append(ctx, chatID, requesterID, content)
	if err != nil {
		result = "failure"
		return nil, err
	}

	payload := dto.NewMessageResponse(*msg)
	d.Relay(chatID, payload)

	update := dto.ChatUpdate{ChatID: chatID.String(), Message: payload}
	d.router.Broadcast(chat.UserAID.String(), EventChatUpdated, update)
	d.router.Broadcast(chat.UserBID.String(), EventChatUpdated, update)

	return msg, nil
}

// Relay fans an already-persisted payload out to the chat room. It never
// writes to the store.
func (d *Delivery) Relay(chatID domain.ChatID, payload any) {
	d.router.Broadcast(chatID.String(), EventReceiveMessage, payload)
}

func (d *Delivery) chatLock(id domain.ChatID) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[id] = lock
	}
	return lock
}
