package ws

import (
	"sync"
)

// Hub is the process-wide presence registry and room manager. It maps each
// user to at most one live connection (last write wins) and tracks named
// broadcast rooms. All state is transient: nothing here survives a restart,
// and a reconnecting client must re-identify and re-join its rooms.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	presence map[int64]*Client
	rooms    map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		presence: make(map[int64]*Client),
		rooms:    make(map[string]map[*Client]struct{}),
	}
}

// Add tracks a newly upgraded connection. The connection stays anonymous
// until Register binds a user identity to it.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Register binds a user to a connection and announces the user online to
// everyone else. If the user already had a connection the mapping is
// replaced; the supplanted connection no longer receives targeted events.
func (h *Hub) Register(userID int64, c *Client) {
	h.mu.Lock()
	h.presence[userID] = c
	h.mu.Unlock()

	h.broadcastExcept(c, Frame{Event: EventUserOnline, Data: userID})
}

// Remove drops a connection from the hub: its room memberships and, if it is
// still the user's current connection, its presence entry. user_offline is
// broadcast only when a presence entry was actually removed, so removing an
// unknown or already-replaced connection is a silent no-op.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	for roomID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	var userID int64
	found := false
	for uid, cl := range h.presence {
		if cl == c {
			delete(h.presence, uid)
			userID = uid
			found = true
			break
		}
	}
	h.mu.Unlock()

	if found {
		h.broadcastExcept(c, Frame{Event: EventUserOffline, Data: userID})
	}
}

// Join adds a connection to a room. Joining an already-joined room is a
// no-op, so a room never delivers the same frame twice to one connection.
func (h *Hub) Join(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
}

// Online reports whether a user currently has a registered connection.
func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.presence[userID]
	return ok
}

// BroadcastToRoom sends a frame to every connection in the room, the sender
// included.
func (h *Hub) BroadcastToRoom(roomID string, f Frame) {
	h.sendToRoom(roomID, nil, f)
}

// BroadcastToRoomExcept sends a frame to every connection in the room except
// the given one.
func (h *Hub) BroadcastToRoomExcept(roomID string, except *Client, f Frame) {
	h.sendToRoom(roomID, except, f)
}

func (h *Hub) sendToRoom(roomID string, except *Client, f Frame) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		if c != except {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		if err := c.send(f); err != nil {
			// best-effort; the conn's read loop will clean up on disconnect
			c.close()
		}
	}
}

// broadcastExcept sends a frame to every tracked connection except one.
func (h *Hub) broadcastExcept(except *Client, f Frame) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(f); err != nil {
			c.close()
		}
	}
}
