package websocket

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
	ws "github.com/piresc/ridetracker/internal/pkg/websocket"
	"github.com/piresc/ridetracker/services/ridesession"
)

// Initial state events sent to a newly connected UI client
const (
	EventSessionsSnapshot = "sessions"
	EventOffersSnapshot   = "offers"
)

// StreamHandler forwards tracker events to connected UI clients
type StreamHandler struct {
	trackerUC  ridesession.TrackerUC
	hub        *ws.Manager
	listenerID realtime.SubscriptionID
}

// NewStreamHandler creates a new UI stream handler
func NewStreamHandler(trackerUC ridesession.TrackerUC, hub *ws.Manager) *StreamHandler {
	return &StreamHandler{trackerUC: trackerUC, hub: hub}
}

// Start begins forwarding tracker events
func (h *StreamHandler) Start() {
	h.listenerID = h.trackerUC.AddListener(func(ev ridesession.Event) {
		h.hub.Broadcast(ev.Name, ev)
	})
}

// Stop detaches from the tracker
func (h *StreamHandler) Stop() {
	h.trackerUC.RemoveListener(h.listenerID)
}

// HandleStream upgrades the request and sends the current state before
// live events
func (h *StreamHandler) HandleStream(c echo.Context) error {
	return h.hub.HandleConnection(c, func(client *ws.Client) {
		if err := h.hub.SendMessage(client, EventSessionsSnapshot, h.trackerUC.Sessions()); err != nil {
			logger.Warn("Failed to send session snapshot", logger.String("client_id", client.ID), logger.Err(err))
		}
		if err := h.hub.SendMessage(client, EventOffersSnapshot, h.trackerUC.Offers()); err != nil {
			logger.Warn("Failed to send offers snapshot", logger.String("client_id", client.ID), logger.Err(err))
		}
	})
}
