package websocket

import (
	"sync"

	"github.com/jcordero/tienda-storefront/pkg/logger"
)

// hubEvent is one client joining or leaving. Joins and leaves flow through a
// single channel so a leave is never processed ahead of its own join.
type hubEvent struct {
	client *Client
	join   bool
}

// Hub tracks cart websocket clients by session. Each tab of a session opens
// its own connection; all of them get the same cart-changed pushes.
type Hub struct {
	mu sync.RWMutex

	// session ID -> connected clients
	sessions map[string]map[*Client]bool

	events chan hubEvent
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[*Client]bool),
		events:   make(chan hubEvent, 64),
	}
}

// Run processes client lifecycle events. Call in its own goroutine.
func (h *Hub) Run() {
	for ev := range h.events {
		if ev.join {
			h.addClient(ev.client)
		} else {
			h.removeClient(ev.client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.sessions[client.SessionID]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[client.SessionID] = clients
	}
	clients[client] = true
	tabs := len(clients)
	h.mu.Unlock()

	logger.Debug("Cart websocket client registered", map[string]interface{}{
		"session_id": client.SessionID,
		"tabs":       tabs,
	})
}

// removeClient drops the hub's bookkeeping and cancels the client's cart
// subscription. The Send channel belongs to forwardEvents, which closes it
// once the subscription is drained; closing it here would race pending pushes.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if clients, ok := h.sessions[client.SessionID]; ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.sessions, client.SessionID)
			}
		}
	}
	h.mu.Unlock()

	client.stopEvents()

	logger.Debug("Cart websocket client unregistered", map[string]interface{}{
		"session_id": client.SessionID,
	})
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.events <- hubEvent{client: client, join: true}
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	h.events <- hubEvent{client: client, join: false}
}

// SessionCount reports how many sessions hold open connections.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
