// Package realtime owns the push channel connection shared by every tracked
// ride: connecting, event fan-out to handlers and bounded reconnection.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/observability"
	"github.com/piresc/ridetracker/internal/pkg/retry"
)

// Conn is an established push channel connection
type Conn interface {
	// ReadMessage blocks until the next message arrives or the connection fails
	ReadMessage() (models.WSMessage, error)
	WriteMessage(msg models.WSMessage) error
	Close() error
}

// Dialer opens push channel connections
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}

// Handler receives the raw payload of one event
type Handler func(data json.RawMessage)

// SubscriptionID identifies a registered handler or state watcher
type SubscriptionID string

// Subscription is the handle returned by Subscribe
type Subscription struct {
	Event string
	ID    SubscriptionID
}

// State is the connection state reported to watchers
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateOffline      State = "offline"
)

// Config tunes dialing and reconnection
type Config struct {
	Backoff     retry.Config
	MaxAttempts int
	// Token, when set, is asked for a token before every dial and supersedes
	// the one passed to Connect
	Token func(ctx context.Context) (string, error)
	// DialTimeout bounds one shared dial, which may outlive the caller that
	// started it
	DialTimeout time.Duration
	// Rand and Sleep replace math/rand and timer waits in tests
	Rand  func() float64
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

type handlerEntry struct {
	id      SubscriptionID
	handler Handler
}

type stateWatcher struct {
	id SubscriptionID
	fn func(State)
}

type reconnectLoop struct {
	cancel context.CancelFunc
}

// Manager is the process-wide push channel. It is safe for concurrent use.
type Manager struct {
	dialer      Dialer
	backoff     *retry.Backoff
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
	tokenFn     func(ctx context.Context) (string, error)
	dialTimeout time.Duration
	metrics     *observability.Metrics
	group       singleflight.Group

	mu         sync.RWMutex
	conn       Conn
	token      string
	wanted     bool
	state      State
	failures   int
	generation int
	loop       *reconnectLoop
	handlers   map[string][]handlerEntry
	watchers   []stateWatcher
}

// NewManager creates a Manager dialing through dialer
func NewManager(dialer Dialer, cfg Config, metrics *observability.Metrics) *Manager {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 6
	}
	if cfg.Sleep == nil {
		cfg.Sleep = retry.Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	return &Manager{
		dialer:      dialer,
		backoff:     retry.NewBackoff(cfg.Backoff, cfg.Rand),
		maxAttempts: cfg.MaxAttempts,
		sleep:       cfg.Sleep,
		now:         cfg.Now,
		tokenFn:     cfg.Token,
		dialTimeout: cfg.DialTimeout,
		metrics:     metrics,
		state:       StateDisconnected,
		handlers:    make(map[string][]handlerEntry),
	}
}

// Connect establishes the connection. Concurrent calls share one dial, and a
// dial already in flight is joined rather than restarted. An explicit Connect
// starts a fresh reconnect budget. authToken may be empty when Config.Token
// is set.
func (m *Manager) Connect(ctx context.Context, authToken string) error {
	m.mu.Lock()
	m.token = authToken
	m.wanted = true
	if m.conn != nil {
		m.mu.Unlock()
		return nil
	}
	m.failures = 0
	m.stopLoopLocked()
	m.mu.Unlock()

	err := m.dialShared(ctx)
	if err != nil {
		m.startReconnect()
	}
	return err
}

// Disconnect closes the connection, stops reconnecting and drops every handler
func (m *Manager) Disconnect() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.token = ""
	m.wanted = false
	m.failures = 0
	m.generation++
	m.stopLoopLocked()
	m.handlers = make(map[string][]handlerEntry)
	notify := m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	notify()
	if conn != nil {
		_ = conn.Close()
	}
	logger.Info("Realtime transport disconnected")
}

// Subscribe registers handler for event. Handlers of one event run in
// registration order.
func (m *Manager) Subscribe(event string, handler Handler) Subscription {
	sub := Subscription{Event: event, ID: SubscriptionID(uuid.NewString())}

	m.mu.Lock()
	m.handlers[event] = append(m.handlers[event], handlerEntry{id: sub.ID, handler: handler})
	m.mu.Unlock()

	return sub
}

// Unsubscribe removes one handler. It reports whether it was registered.
func (m *Manager) Unsubscribe(sub Subscription) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.handlers[sub.Event]
	for i, e := range entries {
		if e.id != sub.ID {
			continue
		}
		rest := make([]handlerEntry, 0, len(entries)-1)
		rest = append(rest, entries[:i]...)
		rest = append(rest, entries[i+1:]...)
		if len(rest) == 0 {
			delete(m.handlers, sub.Event)
		} else {
			m.handlers[sub.Event] = rest
		}
		return true
	}
	return false
}

// UnsubscribeAll removes every handler in subs
func (m *Manager) UnsubscribeAll(subs []Subscription) {
	for _, sub := range subs {
		m.Unsubscribe(sub)
	}
}

// HandlerCount returns the number of handlers registered for event
func (m *Manager) HandlerCount(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Publish sends payload when connected. Otherwise it triggers a background
// connect and drops the payload.
func (m *Manager) Publish(event string, payload interface{}) error {
	msg, err := models.NewWSMessage(event, payload)
	if err != nil {
		return err
	}

	m.mu.RLock()
	conn := m.conn
	state := m.state
	m.mu.RUnlock()

	if conn == nil {
		if state != StateOffline {
			go m.connectInBackground()
		}
		logger.Debug("Dropping publish while not connected", logger.String("event", event))
		return models.ErrNotConnected
	}

	if err := conn.WriteMessage(msg); err != nil {
		return &models.TransportError{Op: "publish", Err: err}
	}
	return nil
}

// State returns the current connection state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// WatchState registers fn for state changes
func (m *Manager) WatchState(fn func(State)) SubscriptionID {
	id := SubscriptionID(uuid.NewString())
	m.mu.Lock()
	m.watchers = append(m.watchers, stateWatcher{id: id, fn: fn})
	m.mu.Unlock()
	return id
}

// UnwatchState removes a watcher registered with WatchState
func (m *Manager) UnwatchState(id SubscriptionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.watchers {
		if w.id == id {
			m.watchers = append(m.watchers[:i:i], m.watchers[i+1:]...)
			return
		}
	}
}

// dialShared joins or starts the single in-flight dial. The dial runs on its
// own context so a caller giving up, or a reconnect loop being replaced,
// does not fail it for everyone else.
func (m *Manager) dialShared(ctx context.Context) error {
	ch := m.group.DoChan("dial", func() (interface{}, error) {
		dialCtx, cancel := context.WithTimeout(context.Background(), m.dialTimeout)
		defer cancel()
		return nil, m.dial(dialCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return &models.TransportError{Op: "connect", Err: ctx.Err()}
	}
}

func (m *Manager) dial(ctx context.Context) error {
	m.mu.Lock()
	if m.conn != nil {
		m.mu.Unlock()
		return nil
	}
	token := m.token
	generation := m.generation
	notify := func() {}
	if m.state != StateReconnecting {
		notify = m.setStateLocked(StateConnecting)
	}
	m.mu.Unlock()
	notify()

	if m.tokenFn != nil {
		fresh, err := m.tokenFn(ctx)
		if err != nil {
			return m.dialFailed(&models.TransportError{Op: "connect", Auth: true, Err: err})
		}
		token = fresh
	}

	if err := jwt.CheckToken(token, m.now()); err != nil {
		return m.dialFailed(&models.TransportError{Op: "connect", Auth: true, Err: err})
	}

	conn, err := m.dialer.Dial(ctx, token)
	if err != nil {
		return m.dialFailed(&models.TransportError{
			Op:   "connect",
			Auth: errors.Is(err, models.ErrAuthRejected),
			Err:  err,
		})
	}

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		_ = conn.Close()
		return &models.TransportError{Op: "connect", Err: models.ErrNotConnected}
	}
	m.conn = conn
	m.failures = 0
	notify = m.setStateLocked(StateConnected)
	m.mu.Unlock()
	notify()

	logger.Info("Realtime transport connected")
	go m.readLoop(conn)
	return nil
}

func (m *Manager) dialFailed(err *models.TransportError) error {
	m.mu.Lock()
	m.failures++
	failures := m.failures
	m.mu.Unlock()

	logger.Warn("Realtime dial failed",
		logger.Err(err),
		logger.Bool("auth", err.Auth),
		logger.Int("consecutive_failures", failures))
	return err
}

// startReconnect launches the reconnect loop unless one is running, the
// manager is connected, or the attempt budget is spent
func (m *Manager) startReconnect() {
	m.mu.Lock()
	if m.loop != nil || m.conn != nil || !m.wanted {
		m.mu.Unlock()
		return
	}
	if m.failures >= m.maxAttempts {
		notify := m.setStateLocked(StateOffline)
		m.mu.Unlock()
		notify()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := &reconnectLoop{cancel: cancel}
	m.loop = loop
	notify := m.setStateLocked(StateReconnecting)
	m.mu.Unlock()
	notify()

	go m.reconnect(ctx, loop)
}

func (m *Manager) reconnect(ctx context.Context, loop *reconnectLoop) {
	defer func() {
		m.mu.Lock()
		if m.loop == loop {
			m.loop = nil
		}
		m.mu.Unlock()
		loop.cancel()
	}()

	for attempt := 0; ; attempt++ {
		m.mu.RLock()
		failures := m.failures
		m.mu.RUnlock()

		if failures >= m.maxAttempts {
			m.goOffline(loop)
			return
		}

		delay := m.backoff.Delay(attempt)
		logger.Info("Realtime reconnect scheduled",
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay))

		if err := m.sleep(ctx, delay); err != nil {
			return
		}
		m.metrics.ReconnectAttempt()

		if err := m.dialShared(ctx); err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (m *Manager) goOffline(loop *reconnectLoop) {
	m.mu.Lock()
	if m.loop != loop {
		m.mu.Unlock()
		return
	}
	m.loop = nil
	failures := m.failures
	notify := m.setStateLocked(StateOffline)
	m.mu.Unlock()
	notify()

	logger.Warn("Realtime transport offline, reconnect attempts exhausted",
		logger.Int("attempts", failures))
}

func (m *Manager) connectInBackground() {
	m.mu.RLock()
	busy := m.loop != nil || !m.wanted || m.conn != nil
	m.mu.RUnlock()
	if busy {
		return
	}

	if err := m.dialShared(context.Background()); err != nil {
		m.startReconnect()
	}
}

func (m *Manager) readLoop(conn Conn) {
	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			m.connectionLost(conn, err)
			return
		}

		if msg.Event == constants.EventPing {
			_ = conn.WriteMessage(models.WSMessage{Event: constants.EventPong, Data: msg.Data})
			continue
		}
		m.dispatch(msg.Event, msg.Data)
	}
}

func (m *Manager) dispatch(event string, data json.RawMessage) {
	m.mu.RLock()
	entries := append([]handlerEntry(nil), m.handlers[event]...)
	m.mu.RUnlock()

	if len(entries) == 0 {
		logger.Debug("No handler for realtime event", logger.String("event", event))
		return
	}
	for _, e := range entries {
		e.handler(data)
	}
}

func (m *Manager) connectionLost(conn Conn, cause error) {
	m.mu.Lock()
	if m.conn != conn {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.mu.Unlock()

	_ = conn.Close()
	logger.Warn("Realtime connection lost",
		logger.Err(&models.TransportError{Op: "read", Err: cause}))
	m.startReconnect()
}

// stopLoopLocked cancels the reconnect loop. Callers hold m.mu.
func (m *Manager) stopLoopLocked() {
	if m.loop != nil {
		m.loop.cancel()
		m.loop = nil
	}
}

// setStateLocked records s and returns a func notifying watchers, to be
// called after m.mu is released
func (m *Manager) setStateLocked(s State) func() {
	if m.state == s {
		return func() {}
	}
	prev := m.state
	m.state = s
	watchers := append([]stateWatcher(nil), m.watchers...)

	return func() {
		m.metrics.TransportStateChanged(string(prev), string(s))
		for _, w := range watchers {
			w.fn(s)
		}
	}
}
