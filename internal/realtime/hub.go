package realtime

import (
	"log/slog"
	"sync"
)

// Event is the wire envelope pushed to connected clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// jsonWriter is satisfied by *websocket.Conn.
type jsonWriter interface {
	WriteJSON(v any) error
}

// Conn is a hub-managed connection. Writes are serialized because the
// underlying websocket allows only one concurrent writer.
type Conn struct {
	ws jsonWriter
	mu sync.Mutex
}

func (c *Conn) write(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(e)
}

// Hub fans events out to per-user rooms. A user may hold several
// connections (multiple tabs); each gets every event for its room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Conn]struct{})}
}

// Join registers a connection under the room and returns its handle.
func (h *Hub) Join(room string, ws jsonWriter) *Conn {
	c := &Conn{ws: ws}
	h.mu.Lock()
	conns, ok := h.rooms[room]
	if !ok {
		conns = make(map[*Conn]struct{})
		h.rooms[room] = conns
	}
	conns[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Leave removes the connection; empty rooms are dropped.
func (h *Hub) Leave(room string, c *Conn) {
	h.mu.Lock()
	if conns, ok := h.rooms[room]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// Emit pushes an event to every connection in the room. Delivery is
// best-effort: write failures are logged and the read loop is left to
// reap the dead connection.
func (h *Hub) Emit(room, event string, data any) {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		if err := c.write(Event{Event: event, Data: data}); err != nil {
			slog.Debug("realtime emit failed", "room", room, "event", event, "error", err)
		}
	}
}

// Send pushes an event to a single connection.
func (h *Hub) Send(c *Conn, event string, data any) error {
	return c.write(Event{Event: event, Data: data})
}

// RoomSize reports the number of live connections for a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
