package countdown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (fc *fakeClock) NewTicker(time.Duration) Ticker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	fc.tickers = append(fc.tickers, t)
	return t
}

func (fc *fakeClock) latest() *fakeTicker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.tickers[len(fc.tickers)-1]
}

// tick delivers one tick and reports whether the controller accepted it
func (fc *fakeClock) tick(t *testing.T) bool {
	t.Helper()
	select {
	case fc.latest().ch <- time.Now():
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

type recorder struct {
	mu       sync.Mutex
	ticks    []int
	timeouts int
	signal   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan struct{}, 64)}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnTick: func(remaining int) {
			r.mu.Lock()
			r.ticks = append(r.ticks, remaining)
			r.mu.Unlock()
			r.signal <- struct{}{}
		},
		OnTimeout: func() {
			r.mu.Lock()
			r.timeouts++
			r.mu.Unlock()
		},
	}
}

func (r *recorder) waitTick(t *testing.T) {
	t.Helper()
	select {
	case <-r.signal:
	case <-time.After(time.Second):
		t.Fatal("tick callback not invoked")
	}
}

func (r *recorder) snapshot() ([]int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.timeouts
}

func TestController_FullCountdown(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	c := New(clock.NewTicker, nil, rec.callbacks())

	c.Start(30)
	for i := 0; i < 30; i++ {
		require.True(t, clock.tick(t))
		rec.waitTick(t)
	}

	require.Eventually(t, func() bool {
		_, timeouts := rec.snapshot()
		return timeouts == 1
	}, time.Second, 5*time.Millisecond)

	ticks, timeouts := rec.snapshot()
	expected := make([]int, 0, 30)
	for i := 29; i >= 0; i-- {
		expected = append(expected, i)
	}
	assert.Equal(t, expected, ticks)
	assert.Equal(t, 1, timeouts)
	assert.False(t, c.Running())
	assert.False(t, clock.tick(t), "no ticks are consumed after timeout")
	assert.True(t, clock.latest().stopped.Load())
}

func TestController_StopPreventsTimeout(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	c := New(clock.NewTicker, nil, rec.callbacks())

	c.Start(30)
	for i := 0; i < 12; i++ {
		require.True(t, clock.tick(t))
		rec.waitTick(t)
	}
	c.Stop()
	c.Stop()

	// a tick racing the stop is consumed but never reported
	clock.tick(t)
	ticks, timeouts := rec.snapshot()
	assert.Len(t, ticks, 12)
	assert.Equal(t, 18, ticks[len(ticks)-1])
	assert.Zero(t, timeouts)
	assert.False(t, c.Running())
}

func TestController_InvisibleTicksAreSkipped(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	var visible atomic.Bool
	checked := make(chan struct{}, 16)
	isVisible := func() bool {
		checked <- struct{}{}
		return visible.Load()
	}
	c := New(clock.NewTicker, isVisible, rec.callbacks())

	c.Start(3)
	for i := 0; i < 2; i++ {
		require.True(t, clock.tick(t))
		<-checked
	}
	assert.Equal(t, 3, c.Remaining())

	visible.Store(true)
	require.True(t, clock.tick(t))
	rec.waitTick(t)
	assert.Equal(t, 2, c.Remaining())

	ticks, _ := rec.snapshot()
	assert.Equal(t, []int{2}, ticks)
}

func TestController_RestartAfterTimeout(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	c := New(clock.NewTicker, nil, rec.callbacks())

	c.Start(2)
	for i := 0; i < 2; i++ {
		require.True(t, clock.tick(t))
		rec.waitTick(t)
	}
	require.Eventually(t, func() bool {
		_, timeouts := rec.snapshot()
		return timeouts == 1
	}, time.Second, 5*time.Millisecond)

	c.Start(2)
	assert.True(t, c.Running())
	assert.Equal(t, 2, c.Remaining())
	for i := 0; i < 2; i++ {
		require.True(t, clock.tick(t))
		rec.waitTick(t)
	}
	require.Eventually(t, func() bool {
		_, timeouts := rec.snapshot()
		return timeouts == 2
	}, time.Second, 5*time.Millisecond)

	ticks, _ := rec.snapshot()
	assert.Equal(t, []int{1, 0, 1, 0}, ticks)
}

func TestController_StopWhenIdle(t *testing.T) {
	c := New(nil, nil, Callbacks{})
	assert.NotPanics(t, c.Stop)
	assert.Zero(t, c.Remaining())
}

func TestController_StopDuringFinalTickSuppressesTimeout(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	var c *Controller
	cb := rec.callbacks()
	onTick := cb.OnTick
	cb.OnTick = func(remaining int) {
		if remaining == 0 {
			c.Stop()
		}
		onTick(remaining)
	}
	c = New(clock.NewTicker, nil, cb)

	c.Start(2)
	for i := 0; i < 2; i++ {
		require.True(t, clock.tick(t))
		rec.waitTick(t)
	}

	require.Eventually(t, func() bool {
		return clock.latest().stopped.Load()
	}, time.Second, 5*time.Millisecond)
	ticks, timeouts := rec.snapshot()
	assert.Equal(t, []int{1, 0}, ticks)
	assert.Zero(t, timeouts)
	assert.False(t, c.Running())
}

func TestController_RestartDuringFinalTickKeepsNewRun(t *testing.T) {
	clock := &fakeClock{}
	rec := newRecorder()
	var c *Controller
	var restarted atomic.Bool
	cb := rec.callbacks()
	onTick := cb.OnTick
	cb.OnTick = func(remaining int) {
		if remaining == 0 && restarted.CompareAndSwap(false, true) {
			c.Start(5)
		}
		onTick(remaining)
	}
	c = New(clock.NewTicker, nil, cb)

	c.Start(1)
	require.True(t, clock.tick(t))
	rec.waitTick(t)

	require.Eventually(t, func() bool {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		return len(clock.tickers) == 2 && clock.tickers[0].stopped.Load()
	}, time.Second, 5*time.Millisecond)
	_, timeouts := rec.snapshot()
	assert.Zero(t, timeouts)
	assert.True(t, c.Running())
	assert.Equal(t, 5, c.Remaining())
	c.Stop()
}
