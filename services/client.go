package services

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// Client is one websocket subscriber to the round-state feed. The feed is
// read-only; inbound messages are drained just to detect disconnects.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

// Close is idempotent. The send channel is closed under the same mutex
// trySend holds, so a concurrent broadcast can never hit a closed channel.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.conn.Close()
}

// trySend queues a message without blocking; messages to a slow or already
// closed client are dropped.
func (c *Client) trySend(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		logger.Debugf("[Hub] dropping update for slow client")
	}
}

func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[Hub] client disconnected normally")
			} else {
				logger.Debugf("[Hub] client read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[Hub] client write error: %v", err)
			return
		}
	}
}
