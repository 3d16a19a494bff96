package toastsvc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/notification"
)

type toastMessage struct {
	Icon    string `json:"icon"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	EventID string `json:"event_id,omitempty"`
}

// Hub broadcasts toasts to every connected websocket client. Clients that
// fail a write are dropped; delivery is best effort.
type Hub struct {
	logger core.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

var _ notification.Toaster = (*Hub)(nil)

func NewHub(logger core.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Hub) Toast(n notification.Notification) {
	data, err := json.Marshal(toastMessage{
		Icon:    icon(n.Kind),
		Kind:    string(n.Kind),
		Title:   n.Title,
		Body:    n.Body,
		EventID: n.EventID,
	})
	if err != nil {
		h.logger.Error(fmt.Sprintf("marshaling toast: %v", err), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
