// internal/server/hub.go
package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// reloadMessage tells a preview page to fetch the README again.
const reloadMessage = "reload"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	// Any origin: the preview page is the only client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadHub tracks the browsers showing the preview.
type reloadHub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func newReloadHub(logger *zap.Logger) *reloadHub {
	return &reloadHub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

func (h *reloadHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("preview client connected", zap.Int("clients", n))
}

func (h *reloadHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	n := len(h.conns)
	h.mu.Unlock()
	if ok {
		conn.Close()
		h.logger.Debug("preview client gone", zap.Int("clients", n))
	}
}

// notify pushes a reload to every client. Clients that cannot be written
// to are dropped.
func (h *reloadHub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			h.logger.Warn("dropping preview client", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *reloadHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
	}
	clear(h.conns)
}

func (h *reloadHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request and holds the connection until the
// browser goes away. Clients never send anything; reads only surface
// the close.
func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.add(conn)
	defer h.remove(conn)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
