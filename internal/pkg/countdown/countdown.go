// Package countdown drives the per-second search timeout shown while a
// ride request waits for a counterpart.
package countdown

import (
	"sync"
	"time"
)

// Ticker is the part of time.Ticker the controller needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d
type TickerFunc func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealTicker is the wall-clock TickerFunc
func RealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Callbacks receive countdown signals. Both are invoked from the
// controller's goroutine without its lock held and must not block for long.
// A tick is only delivered for the current run, but a Stop returning while
// OnTick runs does not interrupt it. It does suppress the OnTimeout that
// would follow the final tick.
type Callbacks struct {
	OnTick    func(remaining int)
	OnTimeout func()
}

// Controller runs at most one countdown at a time
type Controller struct {
	newTicker TickerFunc
	visible   func() bool
	callbacks Callbacks

	mu  sync.Mutex
	cur *run
}

type run struct {
	remaining int
	stop      chan struct{}
	done      chan struct{}
}

// New creates a Controller. visible gates ticking: while it returns false
// ticks are skipped without decrementing. A nil visible means always visible.
func New(newTicker TickerFunc, visible func() bool, cb Callbacks) *Controller {
	if newTicker == nil {
		newTicker = RealTicker
	}
	if visible == nil {
		visible = func() bool { return true }
	}
	return &Controller{newTicker: newTicker, visible: visible, callbacks: cb}
}

// Start (re)starts the countdown from totalSeconds
func (c *Controller) Start(totalSeconds int) {
	c.mu.Lock()
	c.stopLocked()
	if totalSeconds <= 0 {
		c.mu.Unlock()
		return
	}
	r := &run{
		remaining: totalSeconds,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	c.cur = r
	t := c.newTicker(time.Second)
	c.mu.Unlock()

	go c.loop(r, t)
}

// Stop cancels the running countdown. Safe to call when not running.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// Running reports whether a countdown is in progress
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

// Remaining returns the seconds left, or 0 when not running
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return 0
	}
	return c.cur.remaining
}

func (c *Controller) stopLocked() {
	if c.cur == nil {
		return
	}
	close(c.cur.stop)
	c.cur = nil
}

func (c *Controller) loop(r *run, t Ticker) {
	defer close(r.done)
	defer t.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-t.C():
			remaining, ok := c.step(r)
			if !ok {
				continue
			}
			if c.callbacks.OnTick != nil {
				c.callbacks.OnTick(remaining)
			}
			if remaining > 0 {
				continue
			}
			if !c.finish(r) {
				return
			}
			if c.callbacks.OnTimeout != nil {
				c.callbacks.OnTimeout()
			}
			return
		}
	}
}

// step consumes one tick for r. It returns ok=false when r is no longer the
// current run or the screen is not visible.
func (c *Controller) step(r *run) (remaining int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != r || !c.visible() {
		return 0, false
	}
	if r.remaining > 0 {
		r.remaining--
	}
	return r.remaining, true
}

// finish retires r after its final tick. It reports false when r was stopped
// or replaced while that tick was delivered.
func (c *Controller) finish(r *run) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != r {
		return false
	}
	c.cur = nil
	return true
}
