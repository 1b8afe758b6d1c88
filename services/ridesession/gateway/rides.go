package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/piresc/ridetracker/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/ridetracker/internal/pkg/http"
	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/services/ridesession"
)

// RidesGateway talks to the rides REST API
type RidesGateway struct {
	client  *httpclient.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewRidesGateway creates the rides API gateway. User actions go through a
// circuit breaker, reconciliation fetches do not.
func NewRidesGateway(cfg *models.Config, tokens jwt.TokenSource) ridesession.RideGW {
	breakerCfg := circuitbreaker.DefaultConfig("rides-api")
	breakerCfg.IsFailure = isServerFailure
	breakerCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("Rides API circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()))
	}

	return &RidesGateway{
		client: httpclient.NewClient(httpclient.Config{
			BaseURL: cfg.Rides.BaseURL,
			Timeout: cfg.Rides.Timeout,
			Tokens:  tokens,
		}),
		breaker: circuitbreaker.New(breakerCfg, nil),
	}
}

// isServerFailure keeps client errors such as a lost accept race from
// tripping the breaker
func isServerFailure(err error) bool {
	if err == nil {
		return false
	}
	code := models.StatusCodeOf(err)
	return code == 0 || code >= 500
}

// FetchRide gets the server's current view of a ride
func (gw *RidesGateway) FetchRide(ctx context.Context, rideID string) (*models.RideSnapshot, error) {
	var snap models.RideSnapshot
	if err := gw.client.GetJSON(ctx, rideEndpoint(rideID, ""), &snap); err != nil {
		return nil, fmt.Errorf("failed to fetch ride: %w", err)
	}
	if snap.RideID == "" {
		snap.RideID = rideID
	}
	return &snap, nil
}

// RequestCancel cancels a ride on behalf of the rider
func (gw *RidesGateway) RequestCancel(ctx context.Context, rideID, reason string) (*models.RideSnapshot, error) {
	return gw.action(ctx, rideID, "cancel", models.CancelRideRequest{Reason: reason})
}

// DriverAccept claims an offered ride
func (gw *RidesGateway) DriverAccept(ctx context.Context, rideID string) (*models.RideSnapshot, error) {
	return gw.action(ctx, rideID, "accept", struct{}{})
}

// DriverReject declines an offered ride
func (gw *RidesGateway) DriverReject(ctx context.Context, rideID, reason string) error {
	_, err := gw.action(ctx, rideID, "reject", models.RejectRideRequest{Reason: reason})
	return err
}

// DriverAdvanceStatus moves the ride to status
func (gw *RidesGateway) DriverAdvanceStatus(ctx context.Context, rideID string, status models.RideStatus) (*models.RideSnapshot, error) {
	return gw.action(ctx, rideID, "status", models.AdvanceStatusRequest{Status: status})
}

// action posts body and returns the snapshot in the response, or nil when
// the body carried none
func (gw *RidesGateway) action(ctx context.Context, rideID, verb string, body interface{}) (*models.RideSnapshot, error) {
	var snap models.RideSnapshot
	err := gw.breaker.Execute(ctx, func(ctx context.Context) error {
		return gw.client.PostJSON(ctx, rideEndpoint(rideID, verb), body, &snap)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			logger.Warn("Rides API unavailable, action refused",
				logger.RideID(rideID),
				logger.String("action", verb))
		}
		return nil, fmt.Errorf("failed to %s ride: %w", verb, err)
	}
	if snap.RideID == "" && snap.Status == "" {
		return nil, nil
	}
	if snap.RideID == "" {
		snap.RideID = rideID
	}
	return &snap, nil
}

func rideEndpoint(rideID, verb string) string {
	endpoint := "/rides/" + url.PathEscape(rideID)
	if verb != "" {
		endpoint += "/" + verb
	}
	return endpoint
}
