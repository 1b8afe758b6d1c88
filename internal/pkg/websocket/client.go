package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
)

const writeWait = 10 * time.Second

// Dialer opens the push channel over a WebSocket with a bearer token
type Dialer struct {
	URL    string
	dialer *websocket.Dialer
}

// NewDialer creates a Dialer for url
func NewDialer(url string, handshakeTimeout time.Duration) *Dialer {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	return &Dialer{
		URL: url,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Dial connects and authenticates. A 401 or 403 handshake response maps to
// models.ErrAuthRejected.
func (d *Dialer) Dial(ctx context.Context, token string) (realtime.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	ws, resp, err := d.dialer.DialContext(ctx, d.URL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: handshake status %d", models.ErrAuthRejected, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to dial %s: %w", d.URL, err)
	}

	return &Conn{ws: ws}, nil
}

// Conn adapts a gorilla connection to realtime.Conn. Writes are serialized.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

// ReadMessage returns the next well-formed envelope. Malformed frames are
// logged and skipped; only transport failures end the read.
func (c *Conn) ReadMessage() (models.WSMessage, error) {
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			return models.WSMessage{}, err
		}
		msg, err := models.DecodeWSMessage(frame)
		if err != nil {
			logger.Warn("Dropping malformed push frame",
				logger.Int("bytes", len(frame)),
				logger.Err(err))
			continue
		}
		return msg, nil
	}
}

func (c *Conn) WriteMessage(msg models.WSMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

func (c *Conn) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}
