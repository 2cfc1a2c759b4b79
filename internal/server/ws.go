package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket event types.
const (
	eventHello = "hello"
	eventSwap  = "swap"
	eventDone  = "done"
)

// WSMessage is the event envelope sent over WebSocket.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// writeWait bounds a single write to a client. A client that cannot keep up
// is dropped instead of stalling the LLL run that broadcasts to it.
const writeWait = 5 * time.Second

// WSClient wraps a websocket connection with a per-connection write mutex.
// Gorilla WebSocket requires that writes are not concurrent on the same Conn.
type WSClient struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	writeWait time.Duration
}

// Send writes a message as JSON to this client.
func (c *WSClient) Send(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *WSClient) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// WSHub broadcasts reduction progress to every connected client.
type WSHub struct {
	mu        sync.RWMutex
	clients   map[*WSClient]struct{}
	writeWait time.Duration
}

// NewWSHub constructs an empty hub.
func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*WSClient]struct{}), writeWait: writeWait}
}

// Add registers a connection with the hub and returns the WSClient wrapper.
func (h *WSHub) Add(conn *websocket.Conn) *WSClient {
	c := &WSClient{conn: conn, writeWait: h.writeWait}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Remove unregisters a client and closes its connection.
func (h *WSHub) Remove(c *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Len returns the number of connected clients.
func (h *WSHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast marshals msg once and sends it to all clients. Clients whose
// write fails or times out are dropped. Nothing is marshaled when no client
// is connected.
func (h *WSHub) Broadcast(msg WSMessage) {
	if h.Len() == 0 {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	var failed []*WSClient
	for c := range h.clients {
		if err := c.write(b); err != nil {
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range failed {
		h.Remove(c)
	}
}
