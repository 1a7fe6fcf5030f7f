// Package presence maps live connections to logical rooms and fans events
// out to them. Membership is ephemeral: it exists only while a connection is
// up and is never persisted.
package presence

import (
	"sync"

	"dmserver/internal/observability/metrics"
)

// Event is a tagged payload delivered to live connections.
type Event struct {
	Name    string
	Payload any
}

// Conn is a live connection handle. Deliver must not block; implementations
// drop the event when the connection cannot keep up.
type Conn interface {
	Deliver(Event)
}

// Router owns the room-membership state. Rooms are identified by bare ids:
// a user id for the per-user inbox room, a chat id for a chat room. The
// router performs no authorization; callers verify before joining.
type Router struct {
	mu     sync.RWMutex
	rooms  map[string]map[Conn]struct{}
	joined map[Conn]map[string]struct{}
}

func NewRouter() *Router {
	return &Router{
		rooms:  make(map[string]map[Conn]struct{}),
		joined: make(map[Conn]map[string]struct{}),
	}
}

// Join adds conn to a room. Joining a room twice is a no-op.
func (r *Router) Join(conn Conn, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[roomID] = members
	}
	members[conn] = struct{}{}

	rooms, ok := r.joined[conn]
	if !ok {
		rooms = make(map[string]struct{})
		r.joined[conn] = rooms
	}
	rooms[roomID] = struct{}{}
}

// Leave removes conn from a room. Empty rooms are deleted so membership
// never outlives the connections that formed it.
func (r *Router) Leave(conn Conn, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(conn, roomID)
}

// Drop removes conn from every room it joined. Called on disconnect.
func (r *Router) Drop(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.joined[conn] {
		r.leaveLocked(conn, roomID)
	}
	delete(r.joined, conn)
}

func (r *Router) leaveLocked(conn Conn, roomID string) {
	if members, ok := r.rooms[roomID]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
	if rooms, ok := r.joined[conn]; ok {
		delete(rooms, roomID)
	}
}

// Broadcast delivers an event to every connection currently in the room.
// Fire-and-forget, at-most-once per member: the member set is snapshotted
// under the read lock and delivery happens outside it, so a slow connection
// never blocks joins or other broadcasts.
func (r *Router) Broadcast(roomID, event string, payload any) {
	r.mu.RLock()
	members := make([]Conn, 0, len(r.rooms[roomID]))
	for conn := range r.rooms[roomID] {
		members = append(members, conn)
	}
	r.mu.RUnlock()

	ev := Event{Name: event, Payload: payload}
	for _, conn := range members {
		conn.Deliver(ev)
	}
	metrics.RoomBroadcastsTotal.WithLabelValues(event).Inc()
}

// RoomCount reports how many connections are currently in a room.
func (r *Router) RoomCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}
