package ridesession

import (
	"context"

	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
)

// Event is a presentation signal emitted by the tracker. Name is one of the
// constants.Event* stream names.
type Event struct {
	Name   string      `json:"event"`
	RideID string      `json:"ride_id,omitempty"`
	Data   interface{} `json:"data"`
}

// Listener receives tracker events. It is called synchronously, sometimes
// while a session is locked, so it must not block or call back into the
// tracker.
type Listener func(Event)

// TrackerUC defines the ride session lifecycle operations
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/ridetracker/services/ridesession TrackerUC
type TrackerUC interface {
	// Track starts following a ride the local rider just requested
	Track(ctx context.Context, rideID string) (models.SessionView, error)
	// Resume restores tracking of the ride recorded in the active ride pointer
	Resume(ctx context.Context) (models.SessionView, error)
	StopTracking(rideID string) error
	// Acknowledge tears down a session once the user saw its terminal state
	Acknowledge(rideID string) error
	Session(rideID string) (models.SessionView, error)
	Sessions() []models.SessionView

	Cancel(ctx context.Context, rideID, reason string) (models.SessionView, error)
	Accept(ctx context.Context, rideID string) (models.SessionView, error)
	Reject(ctx context.Context, rideID, reason string) error
	AdvanceStatus(ctx context.Context, rideID string, next models.RideStatus) (models.SessionView, error)
	RestartSearch(rideID string) error
	SetVisible(visible bool)

	AddOffer(offer models.RideOffer)
	RetractOffer(rideID string)
	Offers() []models.RideOffer

	TransportStateChanged(state realtime.State)
	AddListener(l Listener) realtime.SubscriptionID
	RemoveListener(id realtime.SubscriptionID)
	// Close stops tracking every ride without clearing the active ride pointer
	Close()
}
