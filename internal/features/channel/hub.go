package channel

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Hub tracks the dashboard websocket connections per user so browser
// notifications can be pushed live
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string][]*websocket.Conn),
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Push writes a JSON payload to every connection the user has open.
// Write errors are ignored; a dead connection unregisters itself on the
// next read failure.
func (h *Hub) Push(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.conns[userID] {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}
