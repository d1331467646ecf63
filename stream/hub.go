package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Path is where the websocket endpoint is mounted.
const Path = "/ws"

const (
	writeWait       = 2 * time.Second
	commandCapacity = 64
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes v as JSON. Safe for concurrent use.
func (c *client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub tracks connected clients, fans frames out to them and collects
// their commands.
type Hub struct {
	hello    Hello
	upgrader websocket.Upgrader
	commands chan Command

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub for a width x height world.
func NewHub(width, height int) *Hub {
	return &Hub{
		hello:    Hello{Type: TypeConfig, W: width, H: height},
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		commands: make(chan Command, commandCapacity),
		clients:  make(map[*client]struct{}),
	}
}

// Handler returns an http.Handler serving the websocket endpoint at Path.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}

// Commands returns the queue of client commands. The simulation loop
// drains it between ticks.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection, sends the hello and reads commands
// until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	// Hold the client lock across registration so no frame overtakes the hello
	c := &client{conn: conn}
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteJSON(h.hello)
	c.mu.Unlock()

	defer h.drop(c)

	if err != nil {
		slog.Warn("stream hello failed", "error", err)
		return
	}
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if !cmd.Valid() {
			slog.Debug("ignoring stream command", "type", cmd.Type)
			continue
		}
		select {
		case h.commands <- cmd:
		default:
			slog.Warn("stream command queue full, dropping", "type", cmd.Type)
		}
	}
}

// Broadcast sends v to every client, dropping clients whose write fails.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.Send(v); err != nil {
			slog.Warn("stream send failed", "error", err)
			h.drop(c)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		slog.Info("stream client disconnected")
	}
}
