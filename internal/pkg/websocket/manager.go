package websocket

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

const clientBuffer = 32

// Client is a UI connection subscribed to session updates
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan models.WSMessage

	mu     sync.Mutex
	closed bool
}

// push queues msg without blocking. It returns false when the buffer is full.
func (c *Client) push(msg models.WSMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Manager fans session updates out to connected UI clients
type Manager struct {
	sync.RWMutex
	clients  map[string]*Client
	token    string
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager. A non-empty token must be
// presented as a bearer header or token query parameter.
func NewManager(token string) *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		token:   token,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates, upgrades and serves one UI client until it
// disconnects. onConnect runs before the client is added to broadcasts.
func (m *Manager) HandleConnection(c echo.Context, onConnect func(*Client)) error {
	if err := m.authenticate(c); err != nil {
		return err
	}

	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{ID: uuid.NewString(), conn: ws, send: make(chan models.WSMessage, clientBuffer)}
	if onConnect != nil {
		onConnect(client)
	}
	m.AddClient(client)
	defer m.RemoveClient(client.ID)

	go m.writePump(client)
	m.readPump(client)
	return nil
}

func (m *Manager) authenticate(c echo.Context) error {
	if m.token == "" {
		return nil
	}
	provided := c.QueryParam("token")
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}
		provided = parts[1]
	}
	if provided != m.token {
		logger.Warn("Rejected UI stream client", logger.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return nil
}

// readPump answers client pings and reports anything else as an error event.
// It returns when the client goes away.
func (m *Manager) readPump(client *Client) {
	for {
		_, frame, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := models.DecodeWSMessage(frame)
		if err != nil {
			_ = m.SendErrorMessage(client, "invalid_format", err.Error())
			continue
		}
		if msg.Event == constants.EventPing {
			_ = m.SendMessage(client, constants.EventPong, msg.Data)
			continue
		}
		_ = m.SendErrorMessage(client, "unsupported_event", fmt.Sprintf("event %q is not accepted on this stream", msg.Event))
	}
}

func (m *Manager) writePump(client *Client) {
	defer client.conn.Close()
	for msg := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(msg); err != nil {
			logger.Debug("UI client write failed",
				logger.String("client_id", client.ID),
				logger.Err(err))
			return
		}
	}
}

// AddClient safely adds a client to the manager
func (m *Manager) AddClient(client *Client) {
	m.Lock()
	defer m.Unlock()
	m.clients[client.ID] = client
}

// RemoveClient safely removes a client from the manager
func (m *Manager) RemoveClient(id string) {
	m.Lock()
	client, ok := m.clients[id]
	delete(m.clients, id)
	m.Unlock()
	if ok {
		client.close()
	}
}

// ClientCount returns the number of connected UI clients
func (m *Manager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// SendMessage queues a message for one client. Slow clients are dropped.
func (m *Manager) SendMessage(client *Client, event string, data interface{}) error {
	msg, err := models.NewWSMessage(event, data)
	if err != nil {
		return err
	}
	m.enqueue(client, msg)
	return nil
}

// SendErrorMessage sends an error message to a WebSocket client
func (m *Manager) SendErrorMessage(client *Client, code string, message string) error {
	return m.SendMessage(client, constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// Broadcast queues a message for every connected client
func (m *Manager) Broadcast(event string, data interface{}) {
	msg, err := models.NewWSMessage(event, data)
	if err != nil {
		logger.Error("Failed to encode broadcast",
			logger.String("event", event),
			logger.Err(err))
		return
	}

	m.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.RUnlock()

	for _, c := range clients {
		m.enqueue(c, msg)
	}
}

func (m *Manager) enqueue(client *Client, msg models.WSMessage) {
	if !client.push(msg) {
		logger.Warn("UI client too slow, dropping", logger.String("client_id", client.ID))
		m.RemoveClient(client.ID)
	}
}
