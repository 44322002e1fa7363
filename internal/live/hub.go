package live

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pickarena/backend/pkg/logger"
)

// Hub fans a session's re-ranked leaderboards out to websocket viewers.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	onEmpty func()
	closed  bool
}

// NewHub creates a new websocket hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// OnEmpty sets the callback invoked when the last viewer disconnects.
func (h *Hub) OnEmpty(fn func()) {
	h.onEmpty = fn
}

// HandleWS upgrades the request, sends the current board and keeps the
// connection registered until the client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, initial interface{}) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	if err := conn.WriteJSON(initial); err != nil {
		h.drop(conn)
		return
	}

	// Read loop only detects disconnect; viewers never send data
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Broadcast writes a payload to every connected viewer. Viewers whose
// write fails are dropped.
func (h *Hub) Broadcast(payload interface{}) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			h.drop(conn)
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// drop removes a client; when the last one leaves the onEmpty callback
// fires so the owning session can be released.
func (h *Hub) drop(conn *websocket.Conn) {
	conn.Close()

	h.mu.Lock()
	_, present := h.clients[conn]
	delete(h.clients, conn)
	empty := present && len(h.clients) == 0 && !h.closed
	h.mu.Unlock()

	if empty && h.onEmpty != nil {
		h.onEmpty()
	}
}

// Shutdown closes every client connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
