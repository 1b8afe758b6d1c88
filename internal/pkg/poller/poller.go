// Package poller periodically fetches a ride snapshot to reconcile state
// that the push channel may have missed.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

// FetchFunc fetches the current server view of a ride
type FetchFunc func(ctx context.Context, rideID string) (*models.RideSnapshot, error)

// Sink receives poll results
type Sink interface {
	// ApplySnapshot hands a fetched snapshot to the session
	ApplySnapshot(snapshot *models.RideSnapshot)
	// PollFailed reports a failed fetch. The schedule continues unchanged.
	PollFailed(err error)
	// Terminal reports whether the ride reached a terminal status
	Terminal() bool
}

// Config holds the schedule timing
type Config struct {
	InitialDelay time.Duration
	Interval     time.Duration
	FetchTimeout time.Duration
}

// Scheduler runs one polling loop at a time
type Scheduler struct {
	config Config

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a Scheduler
func New(config Config) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Second
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = config.Interval
	}
	return &Scheduler{config: config}
}

// Start begins polling rideID, replacing any loop already running.
// The first fetch happens after InitialDelay, the following ones every
// Interval after the previous fetch settled.
func (s *Scheduler) Start(rideID string, fetch FetchFunc, sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true

	go s.run(ctx, done, rideID, fetch, sink)
}

// Stop cancels polling. Safe to call repeatedly and from within sink callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
}

// Running reports whether a loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done returns a channel closed when the current loop exits, or nil
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, rideID string, fetch FetchFunc, sink Sink) {
	defer close(done)
	defer s.finished(done)

	timer := time.NewTimer(s.config.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if sink.Terminal() {
			logger.Debug("Ride terminal, polling stopped", logger.RideID(rideID))
			return
		}

		s.tick(ctx, rideID, fetch, sink)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(s.config.Interval)
	}
}

func (s *Scheduler) tick(ctx context.Context, rideID string, fetch FetchFunc, sink Sink) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	snapshot, err := fetch(fetchCtx, rideID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Warn("Ride poll failed",
			logger.RideID(rideID),
			logger.Err(err))
		sink.PollFailed(err)
		return
	}
	if snapshot == nil {
		return
	}
	sink.ApplySnapshot(snapshot)
}

func (s *Scheduler) finished(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == done {
		s.running = false
		s.cancel = nil
	}
}
