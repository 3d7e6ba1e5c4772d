package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"

	"livepoll/internal/metrics"
)

const writeTimeout = 10 * time.Second

// Message is the JSON envelope for every event sent to clients.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 64),
	}
}

// WritePump reads from the Send channel and writes to the WebSocket
// connection until the channel closes or the context ends. A closed
// Send channel drains first, so messages queued just before an
// unregister (the kicked notice, for one) still reach the client
// before the connection closes.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.Conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Hub tracks connected clients and delivers events to all of them or
// to one. Delivery is fire-and-forget: a client whose send buffer is
// full misses the message rather than stalling the caller.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		close(c.Send)
		delete(h.clients, connID)
	}
}

// BroadcastAll delivers an event to every connected client.
func (h *Hub) BroadcastAll(event string, payload any) {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Printf("[Hub] Marshal error for %s: %v\n", event, err)
		return
	}
	metrics.BroadcastsTotal.Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			metrics.MessagesDropped.Inc()
		}
	}
}

// SendTo delivers an event to exactly one client. Returns false if the
// connection is unknown or its buffer was full.
func (h *Hub) SendTo(connID, event string, payload any) bool {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Printf("[Hub] Marshal error for %s: %v\n", event, err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		metrics.MessagesDropped.Inc()
		return false
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
