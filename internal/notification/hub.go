package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024

	sendBuffer = 256
)

// connection is a single registered websocket client. All writes to the
// underlying conn go through the send channel and a single writer pump.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks one live websocket connection per user for notification push.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect replaces the previous connection; closing its send
	// channel lets the old pumps wind down.
	if old, ok := h.connections[c.userID]; ok {
		close(old.send)
	}
	h.connections[c.userID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Only the connection that currently owns the slot may vacate it;
	// a replaced connection's teardown must not evict its successor.
	if existing, ok := h.connections[c.userID]; ok && existing == c {
		delete(h.connections, c.userID)
		close(c.send)
	}
}

// SendToUser queues a message for the user's connection if one is open.
// Returns false when the user is offline or the client is too slow to keep up.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	data, err := json.Marshal(message)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.connections[userID]
	if !ok {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.connections[userID]
	return ok
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, c := range h.connections {
		delete(h.connections, userID)
		close(c.send)
	}
}

// ServeWS registers the connection and starts its pumps. Blocks until the
// client disconnects or the connection is replaced by a reconnect.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump drains the connection so control frames are processed. Incoming
// data frames are ignored; clients only listen on this socket.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
