package gateway

import (
	"sync"

	"github.com/piresc/ridetracker/internal/pkg/logger"
)

// LogAlert stands in for the device's offer sound. It logs transitions and
// ignores repeated Start or Stop calls.
type LogAlert struct {
	mu     sync.Mutex
	active bool
}

// NewLogAlert creates an idle alert
func NewLogAlert() *LogAlert {
	return &LogAlert{}
}

func (a *LogAlert) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return
	}
	a.active = true
	logger.Info("Ride offer alert started")
}

func (a *LogAlert) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	a.active = false
	logger.Info("Ride offer alert stopped")
}

// Active reports whether the alert is playing
func (a *LogAlert) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}
