package ridesession

import (
	"context"

	"github.com/piresc/ridetracker/internal/pkg/models"
)

// ActiveRideRepo stores the pointer to the ride the device is tracking
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/ridetracker/services/ridesession ActiveRideRepo
type ActiveRideRepo interface {
	Save(ctx context.Context, ride models.ActiveRide) error
	// Get returns models.ErrNoActiveRide when nothing is stored
	Get(ctx context.Context) (*models.ActiveRide, error)
	// Clear removes the pointer if it still refers to rideID
	Clear(ctx context.Context, rideID string) error
}
