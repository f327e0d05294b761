package feedback

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 8
)

// Hub fans feedback entries out to connected practitioner dashboards.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Entry
}

// NewHub creates a broadcast hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session auth already ran; the dashboard may be served
			// from a different origin than the API.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Broadcast queues an entry for every connected client. Slow clients are
// dropped rather than allowed to block the caller.
func (h *Hub) Broadcast(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- e:
		default:
			h.evict(c)
		}
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams feedback entries as JSON frames.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feedback hub: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Entry, clientSendSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for e := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(e); err != nil {
			h.mu.Lock()
			h.evict(c)
			h.mu.Unlock()
			return
		}
	}
}

// readLoop discards inbound frames; the stream is one way. It exists to
// notice disconnects promptly.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.mu.Lock()
			h.evict(c)
			h.mu.Unlock()
			return
		}
	}
}

// evict must be called with h.mu held.
func (h *Hub) evict(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	_ = c.conn.Close()
}
