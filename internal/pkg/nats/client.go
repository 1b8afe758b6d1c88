package nats

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Client represents a NATS client for publishing and subscribing to messages
type Client struct {
	conn   *nats.Conn
	closed chan struct{}
}

// NewClient creates a new NATS client. Closed() fires once the connection is
// permanently closed, whether by Close or by the server.
func NewClient(url string, opts ...nats.Option) (*Client, error) {
	c := &Client{closed: make(chan struct{})}
	var once sync.Once
	opts = append(opts, nats.ClosedHandler(func(*nats.Conn) {
		once.Do(func() { close(c.closed) })
	}))

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	c.conn = conn
	return c, nil
}

// GetConn returns the underlying NATS connection
func (c *Client) GetConn() *nats.Conn {
	return c.conn
}

// Closed is closed when the connection is gone for good
func (c *Client) Closed() <-chan struct{} {
	return c.closed
}

// Publish sends a message to the specified subject
func (c *Client) Publish(subject string, data []byte) error {
	err := c.conn.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// ChanSubscribe delivers messages on subject into ch
func (c *Client) ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error) {
	sub, err := c.conn.ChanSubscribe(subject, ch)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject: %w", err)
	}
	if err := c.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("failed to flush subscription: %w", err)
	}

	return sub, nil
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
