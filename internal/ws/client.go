package ws

import (
	"sync"

	"github.com/google/uuid"
)

// conn is the subset of *websocket.Conn the hub writes to. Tests substitute
// in-memory fakes.
type conn interface {
	WriteJSON(v any) error
	Close() error
}

// Client is one live connection. Writes are serialized with a mutex because
// broadcasts originate from other connections' read loops.
type Client struct {
	ID string

	mu sync.Mutex
	c  conn
}

func newClient(c conn) *Client {
	return &Client{
		ID: uuid.NewString(),
		c:  c,
	}
}

func (c *Client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.WriteJSON(v)
}

func (c *Client) close() error {
	return c.c.Close()
}
