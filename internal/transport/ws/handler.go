package ws

import (
	"context"
	"log/slog"
	"net/http"

	"dmserver/internal/observability/metrics"
	"dmserver/internal/presence"
	"dmserver/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer on the REST surface; the
	// realtime channel authenticates by token instead.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades /ws?token=... connections. The handshake requires a
// valid bearer token; no client-asserted identity is trusted after that
// point. Failed joins and sends are logged and dropped, there is no
// response channel back to the client.
type Handler struct {
	tokens   *service.TokenService
	chats    *service.ChatService
	delivery *service.Delivery
	router   *presence.Router
}

func NewHandler(tokens *service.TokenService, chats *service.ChatService, delivery *service.Delivery, router *presence.Router) *Handler {
	return &Handler{tokens: tokens, chats: chats, delivery: delivery, router: router}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.tokens.Verify(token)
	if err != nil {
		http.Error(w, "token invalid or expired", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(userID, conn)
	metrics.WSConnectionsActive.WithLabelValues().Inc()
	defer metrics.WSConnectionsActive.WithLabelValues().Dec()
	slog.Info("realtime connection opened", "user_id", userID)

	go c.writePump()
	c.readPump(h)

	slog.Info("realtime connection closed", "user_id", userID)
}

func (h *Handler) dispatch(c *client, env envelope) {
	ctx := context.Background()

	switch env.Type {
	case eventJoin:
		// Identity comes from the verified handshake token, never from the
		// payload.
		if env.UserID != "" && env.UserID != c.userID.String() {
			slog.Warn("join for foreign user ignored", "user_id", c.userID, "requested", env.UserID)
			return
		}
		h.router.Join(c, c.userID.String())

	case eventJoinChat:
		chatID, err := uuid.Parse(env.ChatID)
		if err != nil {
			slog.Warn("joinChat with invalid chat id", "user_id", c.userID)
			return
		}
		chat, err := h.chats.Get(ctx, chatID)
		if err != nil {
			slog.Warn("joinChat for unknown chat", "user_id", c.userID, "chat_id", chatID)
			return
		}
		if !chat.HasParticipant(c.userID) {
			slog.Warn("joinChat by non-participant ignored", "user_id", c.userID, "chat_id", chatID)
			return
		}
		h.router.Join(c, chatID.String())

	case eventSendMessage:
		chatID, err := uuid.Parse(env.ChatID)
		if err != nil {
			slog.Warn("sendMessage with invalid chat id", "user_id", c.userID)
			return
		}
		// Same persist-then-broadcast path as the REST surface; the channel
		// never echoes unpersisted payloads.
		if _, err := h.delivery.Send(ctx, c.userID, chatID, env.Content); err != nil {
			slog.Warn("realtime send failed", "user_id", c.userID, "chat_id", chatID, "error", err)
		}

	default:
		slog.Debug("unknown realtime event", "type", env.Type, "user_id", c.userID)
	}
}
