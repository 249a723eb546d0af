package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"messagely/internal/models"
	"messagely/internal/observability"
	"messagely/internal/telemetry"
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn Conn
	info ConnInfo
	mu   sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live connections per username.
type Hub struct {
	users  map[string]map[Conn]*client
	events *telemetry.Events
	mu     sync.RWMutex
}

// NewHub creates an empty hub. events may be nil.
func NewHub(events *telemetry.Events) *Hub {
	return &Hub{
		users:  make(map[string]map[Conn]*client),
		events: events,
	}
}

// AddClient registers a connection for info.Username.
func (h *Hub) AddClient(conn Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[info.Username]; !ok {
		h.users[info.Username] = make(map[Conn]*client)
	}
	h.users[info.Username][conn] = &client{conn: conn, info: info}
}

// RemoveClient drops a connection. It reports whether the connection was known.
func (h *Hub) RemoveClient(username string, conn Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.users[username]
	if !ok {
		return false
	}
	if _, ok := conns[conn]; !ok {
		return false
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.users, username)
	}
	return true
}

// Connections returns how many live connections username has.
func (h *Hub) Connections(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[username])
}

// NotifyMessage pushes a new message to its recipient.
func (h *Hub) NotifyMessage(ctx context.Context, msg models.Message) {
	h.send(ctx, msg.ToUsername, models.MessageEvent{Type: "message", Message: &msg})
}

// NotifyRead pushes a read receipt to the message sender.
func (h *Hub) NotifyRead(ctx context.Context, sender string, receipt models.ReadReceipt) {
	h.send(ctx, sender, models.MessageEvent{Type: "read", Receipt: &receipt})
}

func (h *Hub) send(ctx context.Context, username string, event models.MessageEvent) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.users[username]))
	for _, cl := range h.users[username] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "websocket event encode failed", "error", err)
		return
	}

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			slog.WarnContext(ctx, "websocket write failed", "conn_id", cl.info.ConnID, "error", err)
			cl.conn.Close()
			if h.RemoveClient(username, cl.conn) {
				observability.DecWSActive()
			}
			observability.IncWSEvent("ws_error")
			h.events.Connection(ctx, "ws_error", cl.info.payload("ws_error", err.Error()))
			continue
		}
		observability.IncWSEvent("push_" + event.Type)
	}
}
