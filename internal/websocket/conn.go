package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/pkg/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Cart pushes are tiny; inbound frames should be too.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client runs on a different origin than this service;
	// session affinity comes from the cart cookie, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// cartChanged is the frame pushed on every mutation of the session's cart.
type cartChanged struct {
	Event string  `json:"event"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Client is one websocket connection belonging to a cart session.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte

	cancelOnce sync.Once
	cancel     func()
}

// ServeWS upgrades the request and wires the connection to the session's cart
// store: every store event is forwarded as a cart_changed frame.
func ServeWS(hub *Hub, store *cart.Store, sessionID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Cart websocket upgrade failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	events, cancel := store.Subscribe()
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
		cancel:    cancel,
	}
	hub.Register(client)

	go client.forwardEvents(events)
	go client.writePump()
	go client.readPump()
}

func (c *Client) stopEvents() {
	c.cancelOnce.Do(c.cancel)
}

// forwardEvents turns cart store events into outbound frames. It is the sole
// writer of Send and closes it after the subscription is cancelled at
// unregister time and drained.
func (c *Client) forwardEvents(events <-chan cart.Event) {
	defer close(c.Send)
	for ev := range events {
		payload, err := json.Marshal(cartChanged{
			Event: "cart_changed",
			Count: ev.Count,
			Total: ev.Total,
		})
		if err != nil {
			continue
		}
		select {
		case c.Send <- payload:
		default:
			// Slow tab; it will re-read the cart on its next request anyway.
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// The cart channel is push-only; inbound frames are drained and
		// dropped, reads exist to detect closure.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("Cart websocket closed unexpectedly", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
