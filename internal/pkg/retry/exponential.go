package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/logger"
)

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	MaxRetries    int              // Maximum number of retry attempts
	BaseDelay     time.Duration    // Delay before the first retry
	MaxDelay      time.Duration    // Upper bound before jitter is applied
	Multiplier    float64          // Exponential backoff multiplier
	Jitter        float64          // Symmetric jitter as a fraction of the delay, 0.2 means ±20%
	RetryableFunc func(error) bool // Decides whether an error is worth another attempt
}

// Backoff computes exponential delays with symmetric jitter
type Backoff struct {
	config Config

	mu   sync.Mutex
	rand func() float64
}

// NewBackoff creates a Backoff. A nil rnd uses math/rand.
func NewBackoff(config Config, rnd func() float64) *Backoff {
	if config.Multiplier < 1 {
		config.Multiplier = 2.0
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = config.BaseDelay
	}
	if config.Jitter < 0 {
		config.Jitter = 0
	}
	if config.Jitter > 1 {
		config.Jitter = 1
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Backoff{config: config, rand: rnd}
}

// Delay returns the wait before retry number attempt, counting from 0
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(b.config.BaseDelay) * math.Pow(b.config.Multiplier, float64(attempt))
	if delay > float64(b.config.MaxDelay) {
		delay = float64(b.config.MaxDelay)
	}

	if b.config.Jitter > 0 {
		b.mu.Lock()
		r := b.rand()
		b.mu.Unlock()
		delay += delay * b.config.Jitter * (2*r - 1)
	}

	return time.Duration(delay)
}

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config  Config
	backoff *Backoff
	logger  *logger.ZapLogger
}

// New creates a new retrier with the given configuration
func New(config Config, l *logger.ZapLogger) *Retrier {
	if config.RetryableFunc == nil {
		config.RetryableFunc = func(error) bool { return true }
	}
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &Retrier{
		config:  config,
		backoff: NewBackoff(config, nil),
		logger:  l,
	}
}

// Execute executes the function with retry logic
func (r *Retrier) Execute(ctx context.Context, fn RetryableFunc) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("Function succeeded after retries",
					logger.Int("total_attempts", attempt+1))
			}
			return nil
		}

		lastErr = err

		if !r.config.RetryableFunc(err) {
			r.logger.Debug("Error is not retryable, stopping",
				logger.Err(err),
				logger.Int("attempt", attempt+1))
			return err
		}

		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.backoff.Delay(attempt)

		r.logger.Debug("Function failed, retrying",
			logger.Err(err),
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay),
			logger.Int("max_retries", r.config.MaxRetries))

		if err := Sleep(ctx, delay); err != nil {
			return err
		}
	}

	r.logger.Error("Function failed after all retries",
		logger.Err(lastErr),
		logger.Int("total_attempts", r.config.MaxRetries+1))

	return fmt.Errorf("retry limit exceeded after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
