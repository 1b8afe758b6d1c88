package realtime

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
	"github.com/piresc/ridetracker/services/ridesession/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport records subscriptions so tests can deliver events directly
type stubTransport struct {
	handlers map[string]realtime.Handler
	watchers map[realtime.SubscriptionID]func(realtime.State)
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		handlers: make(map[string]realtime.Handler),
		watchers: make(map[realtime.SubscriptionID]func(realtime.State)),
	}
}

func (s *stubTransport) Subscribe(event string, handler realtime.Handler) realtime.Subscription {
	s.handlers[event] = handler
	return realtime.Subscription{Event: event, ID: realtime.SubscriptionID(event)}
}

func (s *stubTransport) UnsubscribeAll(subs []realtime.Subscription) {
	for _, sub := range subs {
		delete(s.handlers, sub.Event)
	}
}

func (s *stubTransport) HandlerCount(event string) int {
	if _, ok := s.handlers[event]; ok {
		return 1
	}
	return 0
}

func (s *stubTransport) State() realtime.State { return realtime.StateConnected }

func (s *stubTransport) WatchState(fn func(realtime.State)) realtime.SubscriptionID {
	s.watchers["w"] = fn
	return "w"
}

func (s *stubTransport) UnwatchState(id realtime.SubscriptionID) {
	delete(s.watchers, id)
}

func (s *stubTransport) deliver(t *testing.T, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	h, ok := s.handlers[event]
	require.True(t, ok, "no handler for %s", event)
	h(data)
}

func TestPushHandler_DriverOffers(t *testing.T) {
	ctrl := gomock.NewController(t)
	trackerUC := mocks.NewMockTrackerUC(ctrl)
	transport := newStubTransport()

	h := NewPushHandler(&models.Config{App: models.AppConfig{Role: models.RoleDriver}}, trackerUC, transport)
	h.Start()

	trackerUC.EXPECT().AddOffer(gomock.Any()).Do(func(offer models.RideOffer) {
		assert.Equal(t, "ride-7", offer.RideID)
		assert.Equal(t, "Sari", offer.RiderName)
	})
	transport.deliver(t, constants.EventNewRideRequest, map[string]interface{}{"ride_id": "ride-7", "rider_name": "Sari"})

	// Offers without a ride id and malformed payloads are dropped
	transport.deliver(t, constants.EventNewRideRequest, map[string]interface{}{"rider_name": "Sari"})
	transport.handlers[constants.EventRideTaken](json.RawMessage(`{`))

	trackerUC.EXPECT().RetractOffer("ride-7")
	transport.deliver(t, constants.EventRideTaken, map[string]string{"ride_id": "ride-7"})

	trackerUC.EXPECT().TransportStateChanged(realtime.StateOffline)
	transport.watchers["w"](realtime.StateOffline)

	h.Stop()
	assert.Zero(t, transport.HandlerCount(constants.EventNewRideRequest))
	assert.Zero(t, transport.HandlerCount(constants.EventRideTaken))
	assert.Empty(t, transport.watchers)
}

func TestPushHandler_RiderIgnoresOffers(t *testing.T) {
	ctrl := gomock.NewController(t)
	trackerUC := mocks.NewMockTrackerUC(ctrl)
	transport := newStubTransport()

	h := NewPushHandler(&models.Config{App: models.AppConfig{Role: models.RoleRider}}, trackerUC, transport)
	h.Start()
	defer h.Stop()

	assert.Zero(t, transport.HandlerCount(constants.EventNewRideRequest))
	assert.Len(t, transport.watchers, 1)
}
