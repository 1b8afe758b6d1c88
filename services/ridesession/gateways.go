package ridesession

import (
	"context"

	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
)

// RideGW is the rides REST API
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/ridetracker/services/ridesession RideGW,Alert
type RideGW interface {
	FetchRide(ctx context.Context, rideID string) (*models.RideSnapshot, error)
	RequestCancel(ctx context.Context, rideID, reason string) (*models.RideSnapshot, error)
	DriverAccept(ctx context.Context, rideID string) (*models.RideSnapshot, error)
	DriverReject(ctx context.Context, rideID, reason string) error
	DriverAdvanceStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.RideSnapshot, error)
}

// Alert plays the incoming offer signal. Both calls are idempotent.
type Alert interface {
	Start()
	Stop()
}

// Transport is the shared push channel, implemented by realtime.Manager
type Transport interface {
	Subscribe(event string, handler realtime.Handler) realtime.Subscription
	UnsubscribeAll(subs []realtime.Subscription)
	HandlerCount(event string) int
	State() realtime.State
	WatchState(fn func(realtime.State)) realtime.SubscriptionID
	UnwatchState(id realtime.SubscriptionID)
}
