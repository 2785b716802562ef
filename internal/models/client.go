package models

import (
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Client is one WebSocket viewer attached to a session.
type Client struct {
	Id        uuid.UUID       `json:"clientid"`
	SessionId uuid.UUID       `json:"sessionid"`
	Conn      *websocket.Conn `json:"-"`
	mu        sync.Mutex
	closed    bool
}

var ErrClientClosed = errors.New("client closed")

// Send serialises writes; events arrive from several goroutines.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.Conn == nil {
		return nil
	}
	return c.Conn.WriteJSON(v)
}

// Close stops further writes. The conn itself belongs to the websocket handler.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
