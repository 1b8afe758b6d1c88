package repository

import (
	"context"
	"sync"

	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/services/ridesession"
)

type memoryActiveRideRepo struct {
	mu   sync.Mutex
	ride *models.ActiveRide
}

// NewMemoryActiveRideRepository keeps the pointer for the process lifetime
// only. Used when no Redis is configured.
func NewMemoryActiveRideRepository() ridesession.ActiveRideRepo {
	return &memoryActiveRideRepo{}
}

func (r *memoryActiveRideRepo) Save(_ context.Context, ride models.ActiveRide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ride = &ride
	return nil
}

func (r *memoryActiveRideRepo) Get(_ context.Context) (*models.ActiveRide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ride == nil {
		return nil, models.ErrNoActiveRide
	}
	ride := *r.ride
	return &ride, nil
}

func (r *memoryActiveRideRepo) Clear(_ context.Context, rideID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ride != nil && r.ride.RideID == rideID {
		r.ride = nil
	}
	return nil
}
