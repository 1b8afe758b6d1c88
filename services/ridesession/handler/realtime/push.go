package realtime

import (
	"encoding/json"

	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
	"github.com/piresc/ridetracker/services/ridesession"
)

// PushHandler routes push channel traffic that is not tied to a tracked
// ride: driver offers and transport state
type PushHandler struct {
	trackerUC ridesession.TrackerUC
	transport ridesession.Transport
	role      models.Role

	subs    []realtime.Subscription
	watchID realtime.SubscriptionID
}

// NewPushHandler creates a new push channel handler
func NewPushHandler(cfg *models.Config, trackerUC ridesession.TrackerUC, transport ridesession.Transport) *PushHandler {
	return &PushHandler{
		trackerUC: trackerUC,
		transport: transport,
		role:      cfg.App.Role,
	}
}

// Start registers the handlers. Offers are only subscribed for drivers.
func (h *PushHandler) Start() {
	h.watchID = h.transport.WatchState(h.trackerUC.TransportStateChanged)
	if h.role != models.RoleDriver {
		return
	}
	h.subs = append(h.subs,
		h.transport.Subscribe(constants.EventNewRideRequest, h.handleNewRideRequest),
		h.transport.Subscribe(constants.EventRideTaken, h.handleRideTaken),
	)
	logger.Info("Listening for ride offers")
}

// Stop removes every handler registered by Start
func (h *PushHandler) Stop() {
	h.transport.UnwatchState(h.watchID)
	h.transport.UnsubscribeAll(h.subs)
	h.subs = nil
}

func (h *PushHandler) handleNewRideRequest(data json.RawMessage) {
	var ev models.NewRideRequestEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		logger.Warn("Dropping malformed ride offer", logger.Err(err))
		return
	}
	if ev.RideID == "" {
		logger.Warn("Dropping ride offer without ride id")
		return
	}
	h.trackerUC.AddOffer(ev.RideOffer)
}

func (h *PushHandler) handleRideTaken(data json.RawMessage) {
	var ev models.RideTakenEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		logger.Warn("Dropping malformed ride taken event", logger.Err(err))
		return
	}
	h.trackerUC.RetractOffer(ev.RideID)
}
