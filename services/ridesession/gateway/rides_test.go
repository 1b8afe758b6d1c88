package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/circuitbreaker"
	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *RidesGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &models.Config{Rides: models.RidesConfig{BaseURL: server.URL + "/", Timeout: time.Second}}
	return NewRidesGateway(cfg, jwt.StaticToken("rider-token")).(*RidesGateway)
}

func TestRidesGateway_FetchRide(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rides/ride-1", r.URL.Path)
		assert.Equal(t, "Bearer rider-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"ride_id":        "ride-1",
				"status":         "driver_assigned",
				"route_polyline": "_p~iF~ps|U",
				"counterpart":    map[string]interface{}{"name": "Budi"},
			},
		})
	})

	snap, err := gw.FetchRide(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, "ride-1", snap.RideID)
	assert.Equal(t, "driver_assigned", snap.Status)
	assert.Equal(t, "Budi", snap.Counterpart.Name)
	assert.Equal(t, "_p~iF~ps|U", snap.RoutePolyline)
}

func TestRidesGateway_FetchRideNotFound(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"ride not found"}`, http.StatusNotFound)
	})

	_, err := gw.FetchRide(context.Background(), "ride-404")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, models.StatusCodeOf(err))
}

func TestRidesGateway_Actions(t *testing.T) {
	var lastPath string
	var lastBody map[string]interface{}
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		lastPath = r.URL.Path
		lastBody = nil
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))

		switch r.URL.Path {
		case "/rides/ride-1/reject":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "in_transit"})
		}
	})
	ctx := context.Background()

	snap, err := gw.RequestCancel(ctx, "ride-1", "wrong pickup")
	require.NoError(t, err)
	assert.Equal(t, "/rides/ride-1/cancel", lastPath)
	assert.Equal(t, "wrong pickup", lastBody["reason"])
	assert.Equal(t, "ride-1", snap.RideID, "ride id defaults to the requested one")

	_, err = gw.DriverAccept(ctx, "ride-1")
	require.NoError(t, err)
	assert.Equal(t, "/rides/ride-1/accept", lastPath)

	require.NoError(t, gw.DriverReject(ctx, "ride-1", "too far"))
	assert.Equal(t, "/rides/ride-1/reject", lastPath)
	assert.Equal(t, "too far", lastBody["reason"])

	snap, err = gw.DriverAdvanceStatus(ctx, "ride-1", models.RideStatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, "/rides/ride-1/status", lastPath)
	assert.Equal(t, "in_transit", lastBody["status"])
	assert.Equal(t, "in_transit", snap.Status)
}

func TestRidesGateway_EmptyActionResponse(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	snap, err := gw.DriverAdvanceStatus(context.Background(), "ride-1", models.RideStatusArrived)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRidesGateway_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "ride already taken", http.StatusConflict)
	})

	for i := 0; i < 10; i++ {
		_, err := gw.DriverAccept(context.Background(), "ride-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, models.StatusCodeOf(err))
	}
	assert.Equal(t, int32(10), calls.Load())
	assert.Equal(t, circuitbreaker.StateClosed, gw.breaker.State())
}

func TestRidesGateway_ServerErrorsOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := gw.RequestCancel(context.Background(), "ride-1", "")
		require.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, gw.breaker.State())

	_, err := gw.RequestCancel(context.Background(), "ride-1", "")
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, int32(5), calls.Load())

	// Polling bypasses the breaker
	_, err = gw.FetchRide(context.Background(), "ride-1")
	assert.Equal(t, http.StatusBadGateway, models.StatusCodeOf(err))
	assert.Equal(t, int32(6), calls.Load())
}

func TestLogAlert_Idempotent(t *testing.T) {
	a := NewLogAlert()
	assert.False(t, a.Active())

	a.Start()
	a.Start()
	assert.True(t, a.Active())

	a.Stop()
	a.Stop()
	assert.False(t, a.Active())
}
