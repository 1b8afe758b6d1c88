package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/retry"
)

type fakeConn struct {
	in     chan models.WSMessage
	out    chan models.WSMessage
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan models.WSMessage, 16),
		out:    make(chan models.WSMessage, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (models.WSMessage, error) {
	select {
	case msg := <-c.in:
		return msg, nil
	case <-c.closed:
		return models.WSMessage{}, errors.New("connection closed")
	}
}

func (c *fakeConn) WriteMessage(msg models.WSMessage) error {
	select {
	case <-c.closed:
		return errors.New("connection closed")
	default:
	}
	c.out <- msg
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type fakeDialer struct {
	mu     sync.Mutex
	calls  int
	tokens []string
	conns  []*fakeConn
	fail   func(call int) error
	gate   chan struct{}
	// block, when set, holds the given call until release or ctx is done
	block   int
	release chan struct{}
}

func (d *fakeDialer) Dial(ctx context.Context, token string) (Conn, error) {
	d.mu.Lock()
	d.calls++
	n := d.calls
	d.tokens = append(d.tokens, token)
	gate := d.gate
	fail := d.fail
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if d.block == n {
		select {
		case <-d.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail != nil {
		if err := fail(n); err != nil {
			return nil, err
		}
	}

	conn := newFakeConn()
	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	return conn, nil
}

func (d *fakeDialer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDialer) Tokens() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tokens...)
}

func (d *fakeDialer) lastConn() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[len(d.conns)-1]
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newTestManager(d *fakeDialer, maxAttempts int) (*Manager, *sleepRecorder) {
	sleeper := &sleepRecorder{}
	m := NewManager(d, Config{
		Backoff:     retry.Config{BaseDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, Jitter: 0.2},
		MaxAttempts: maxAttempts,
		Rand:        func() float64 { return 0.5 },
		Sleep:       sleeper.Sleep,
	}, nil)
	return m, sleeper
}

const testToken = "opaque-token"

func TestConnect_SingleFlight(t *testing.T) {
	d := &fakeDialer{gate: make(chan struct{})}
	m, _ := newTestManager(d, 3)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.Connect(context.Background(), testToken)
		}()
	}

	require.Eventually(t, func() bool { return d.Calls() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(d.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, d.Calls())
	assert.Equal(t, StateConnected, m.State())

	require.NoError(t, m.Connect(context.Background(), testToken))
	assert.Equal(t, 1, d.Calls(), "connect while connected is a no-op")
}

func TestDispatch_HandlersRunInRegistrationOrder(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 3)
	require.NoError(t, m.Connect(context.Background(), testToken))
	defer m.Disconnect()

	var mu sync.Mutex
	var order []string
	record := func(name string) Handler {
		return func(data json.RawMessage) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name+":"+string(data))
		}
	}

	m.Subscribe("ride-status-updated", record("first"))
	second := m.Subscribe("ride-status-updated", record("second"))
	m.Subscribe("ride-status-updated", record("third"))
	m.Subscribe("other", record("other"))
	assert.True(t, m.Unsubscribe(second))
	assert.False(t, m.Unsubscribe(second))
	assert.Equal(t, 2, m.HandlerCount("ride-status-updated"))

	d.lastConn().in <- models.WSMessage{Event: "ride-status-updated", Data: json.RawMessage(`1`)}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"first:1", "third:1"}, order)
	mu.Unlock()
}

func TestPublish(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 3)

	err := m.Publish("ping", map[string]string{"a": "b"})
	assert.ErrorIs(t, err, models.ErrNotConnected)
	assert.Zero(t, d.Calls(), "no token yet, nothing to dial with")

	require.NoError(t, m.Connect(context.Background(), testToken))
	require.NoError(t, m.Publish("location", map[string]float64{"lat": 1}))

	msg := <-d.lastConn().out
	assert.Equal(t, "location", msg.Event)
	assert.JSONEq(t, `{"lat":1}`, string(msg.Data))

	// drop the connection: publish triggers a background connect
	d.mu.Lock()
	d.gate = make(chan struct{})
	d.mu.Unlock()
	d.lastConn().Close()

	require.Eventually(t, func() bool { return m.State() == StateReconnecting }, time.Second, time.Millisecond)
	assert.ErrorIs(t, m.Publish("location", nil), models.ErrNotConnected)
	d.mu.Lock()
	close(d.gate)
	d.mu.Unlock()
	require.Eventually(t, func() bool { return m.State() == StateConnected }, time.Second, time.Millisecond)
}

func TestReconnect_BoundedAttemptsThenOffline(t *testing.T) {
	d := &fakeDialer{fail: func(int) error { return errors.New("connection refused") }}
	m, sleeper := newTestManager(d, 3)

	var offline atomic.Int32
	m.WatchState(func(s State) {
		if s == StateOffline {
			offline.Add(1)
		}
	})

	err := m.Connect(context.Background(), testToken)
	var transportErr *models.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.False(t, transportErr.Auth)

	require.Eventually(t, func() bool { return m.State() == StateOffline }, time.Second, time.Millisecond)
	assert.Equal(t, 3, d.Calls())
	assert.Equal(t, int32(1), offline.Load())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 3, d.Calls(), "no automatic dial once offline")

	assert.ErrorIs(t, m.Publish("x", nil), models.ErrNotConnected)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, d.Calls(), "publish does not revive an offline transport")

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.Delays())

	d.mu.Lock()
	d.fail = nil
	d.mu.Unlock()
	require.NoError(t, m.Connect(context.Background(), testToken))
	assert.Equal(t, 4, d.Calls())
	assert.Equal(t, StateConnected, m.State())
}

func TestReconnect_AfterUnexpectedDrop(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 3)
	require.NoError(t, m.Connect(context.Background(), testToken))

	received := make(chan string, 4)
	m.Subscribe("ride-cancelled", func(data json.RawMessage) { received <- string(data) })

	first := d.lastConn()
	first.Close()

	require.Eventually(t, func() bool {
		return d.Calls() == 2 && m.State() == StateConnected
	}, time.Second, time.Millisecond)

	d.lastConn().in <- models.WSMessage{Event: "ride-cancelled", Data: json.RawMessage(`"r1"`)}
	select {
	case got := <-received:
		assert.Equal(t, `"r1"`, got, "handlers survive reconnection")
	case <-time.After(time.Second):
		t.Fatal("handler not invoked after reconnect")
	}
}

func TestDisconnect_ClearsHandlersAndStopsReconnecting(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 3)
	require.NoError(t, m.Connect(context.Background(), testToken))

	var states []State
	var mu sync.Mutex
	m.WatchState(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	m.Subscribe("ride-status-updated", func(json.RawMessage) {})

	m.Disconnect()

	assert.Zero(t, m.HandlerCount("ride-status-updated"))
	assert.Equal(t, StateDisconnected, m.State())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, d.Calls())

	mu.Lock()
	assert.Equal(t, []State{StateDisconnected}, states)
	mu.Unlock()
}

func TestConnect_ExpiredTokenFailsWithoutDialing(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 1)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	err = m.Connect(context.Background(), token)

	var transportErr *models.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Auth)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
	assert.Zero(t, d.Calls())
	require.Eventually(t, func() bool { return m.State() == StateOffline }, time.Second, time.Millisecond)
}

func TestWatchState_ConnectSequence(t *testing.T) {
	d := &fakeDialer{}
	m, _ := newTestManager(d, 3)

	var mu sync.Mutex
	var states []State
	id := m.WatchState(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	require.NoError(t, m.Connect(context.Background(), testToken))
	m.UnwatchState(id)
	m.Disconnect()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateConnecting, StateConnected}, states)
}

func TestConnect_JoinsDialStartedByReconnectLoop(t *testing.T) {
	d := &fakeDialer{
		fail: func(call int) error {
			if call == 1 {
				return errors.New("connection refused")
			}
			return nil
		},
		block:   2,
		release: make(chan struct{}),
	}
	m, _ := newTestManager(d, 3)

	require.Error(t, m.Connect(context.Background(), testToken))
	require.Eventually(t, func() bool { return d.Calls() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, StateReconnecting, m.State())

	done := make(chan error, 1)
	go func() { done <- m.Connect(context.Background(), testToken) }()

	time.Sleep(20 * time.Millisecond)
	close(d.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("explicit connect did not return")
	}
	assert.Equal(t, StateConnected, m.State())
	assert.Equal(t, 2, d.Calls(), "the in-flight dial is shared, not restarted")
}

func TestConnect_CallerContextDoesNotFailSharedDial(t *testing.T) {
	d := &fakeDialer{block: 1, release: make(chan struct{})}
	m, _ := newTestManager(d, 3)

	ctx, cancel := context.WithCancel(context.Background())
	impatient := make(chan error, 1)
	go func() { impatient <- m.Connect(ctx, testToken) }()
	require.Eventually(t, func() bool { return d.Calls() == 1 }, time.Second, time.Millisecond)

	patient := make(chan error, 1)
	go func() { patient <- m.Connect(context.Background(), testToken) }()
	time.Sleep(10 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-impatient, context.Canceled)

	close(d.release)
	require.NoError(t, <-patient)
	require.Eventually(t, func() bool { return m.State() == StateConnected }, time.Second, time.Millisecond)
	assert.Equal(t, 1, d.Calls())
}

func TestReconnect_AsksTokenSourceBeforeEachDial(t *testing.T) {
	expired, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	var issued atomic.Int32
	tokens := func(context.Context) (string, error) {
		switch issued.Add(1) {
		case 1:
			return expired, nil
		case 2:
			return "refreshed-1", nil
		default:
			return "refreshed-2", nil
		}
	}

	d := &fakeDialer{}
	m := NewManager(d, Config{
		Backoff:     retry.Config{BaseDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2},
		MaxAttempts: 3,
		Token:       tokens,
		Sleep:       func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	}, nil)

	err = m.Connect(context.Background(), "")
	var transportErr *models.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Auth)

	require.Eventually(t, func() bool { return m.State() == StateConnected }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"refreshed-1"}, d.Tokens(), "the expired token is never dialed")

	d.lastConn().Close()
	require.Eventually(t, func() bool {
		return d.Calls() == 2 && m.State() == StateConnected
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"refreshed-1", "refreshed-2"}, d.Tokens())
}
