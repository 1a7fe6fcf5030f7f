package ws

import (
	"log/slog"
	"time"

	"dmserver/internal/domain"
	"dmserver/internal/presence"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// client is one live connection. It implements presence.Conn: Deliver never
// blocks, dropping the event when the outbound buffer is full.
type client struct {
	userID domain.UserID
	conn   *websocket.Conn
	send   chan serverEvent
	done   chan struct{}
}

func newClient(userID domain.UserID, conn *websocket.Conn) *client {
	return &client{
		userID: userID,
		conn:   conn,
		send:   make(chan serverEvent, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *client) Deliver(ev presence.Event) {
	frame, ok := encodeEvent(ev)
	if !ok {
		slog.Warn("undeliverable realtime payload", "event", ev.Name)
		return
	}
	select {
	case c.send <- frame:
	default:
		// At-most-once: a connection that cannot keep up loses the event.
		slog.Debug("realtime event dropped", "event", ev.Name, "user_id", c.userID)
	}
}

// readPump consumes inbound envelopes until the connection dies, then tears
// down room membership.
func (c *client) readPump(h *Handler) {
	defer func() {
		h.router.Drop(c)
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("realtime read failed", "user_id", c.userID, "error", err)
			}
			return
		}
		h.dispatch(c, env)
	}
}

// writePump owns all writes to the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
