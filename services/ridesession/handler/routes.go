package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/middleware"
	"github.com/piresc/ridetracker/internal/pkg/models"
	ws "github.com/piresc/ridetracker/internal/pkg/websocket"
	"github.com/piresc/ridetracker/services/ridesession"
	httpHandler "github.com/piresc/ridetracker/services/ridesession/handler/http"
	realtimeHandler "github.com/piresc/ridetracker/services/ridesession/handler/realtime"
	wsHandler "github.com/piresc/ridetracker/services/ridesession/handler/websocket"
)

// Handler combines all handlers of the ride session bridge
type Handler struct {
	sessionHTTP *httpHandler.SessionHandler
	push        *realtimeHandler.PushHandler
	stream      *wsHandler.StreamHandler
	cfg         *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	cfg *models.Config,
	trackerUC ridesession.TrackerUC,
	transport ridesession.Transport,
) *Handler {
	return &Handler{
		sessionHTTP: httpHandler.NewSessionHandler(trackerUC),
		push:        realtimeHandler.NewPushHandler(cfg, trackerUC, transport),
		stream:      wsHandler.NewStreamHandler(trackerUC, ws.NewManager(cfg.Server.AuthToken)),
		cfg:         cfg,
	}
}

// RegisterRoutes registers the bridge routes. Everything except health and
// metrics requires the bridge token.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", middleware.BearerTokenMiddleware(h.cfg.Server.AuthToken))
	h.sessionHTTP.RegisterRoutes(api)

	// The stream authenticates itself since browsers cannot set headers on upgrade
	e.GET("/ws", h.stream.HandleStream)
}

// Start attaches the push and stream handlers to the tracker
func (h *Handler) Start() {
	h.push.Start()
	h.stream.Start()
}

// Stop detaches the push and stream handlers
func (h *Handler) Stop() {
	h.stream.Stop()
	h.push.Stop()
}
