package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	nrpkg "github.com/piresc/ridetracker/internal/pkg/newrelic"
	"github.com/piresc/ridetracker/internal/utils"
	"github.com/piresc/ridetracker/services/ridesession"
)

// SessionHandler exposes the tracker to the presentation layer
type SessionHandler struct {
	trackerUC ridesession.TrackerUC
}

// NewSessionHandler creates a new session HTTP handler
func NewSessionHandler(trackerUC ridesession.TrackerUC) *SessionHandler {
	return &SessionHandler{trackerUC: trackerUC}
}

type trackRequest struct {
	RideID string `json:"ride_id"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

// RegisterRoutes mounts the session endpoints on g
func (h *SessionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/sessions", nrpkg.TraceHandler("Sessions.List", h.ListSessions))
	g.POST("/sessions", nrpkg.TraceHandler("Sessions.Track", h.Track))
	g.POST("/sessions/resume", nrpkg.TraceHandler("Sessions.Resume", h.Resume))
	g.GET("/sessions/:ride_id", nrpkg.TraceHandler("Sessions.Get", h.GetSession))
	g.DELETE("/sessions/:ride_id", nrpkg.TraceHandler("Sessions.Stop", h.StopTracking))
	g.POST("/sessions/:ride_id/cancel", nrpkg.TraceHandler("Sessions.Cancel", h.Cancel))
	g.POST("/sessions/:ride_id/accept", nrpkg.TraceHandler("Sessions.Accept", h.Accept))
	g.POST("/sessions/:ride_id/reject", nrpkg.TraceHandler("Sessions.Reject", h.Reject))
	g.POST("/sessions/:ride_id/advance", nrpkg.TraceHandler("Sessions.Advance", h.Advance))
	g.POST("/sessions/:ride_id/search/restart", nrpkg.TraceHandler("Sessions.RestartSearch", h.RestartSearch))
	g.POST("/sessions/:ride_id/ack", nrpkg.TraceHandler("Sessions.Acknowledge", h.Acknowledge))
	g.GET("/offers", nrpkg.TraceHandler("Offers.List", h.ListOffers))
	g.PUT("/visibility", nrpkg.TraceHandler("Visibility.Set", h.SetVisibility))
}

func (h *SessionHandler) ListSessions(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "", h.trackerUC.Sessions())
}

// Track starts following a ride the rider just requested
func (h *SessionHandler) Track(c echo.Context) error {
	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.RideID == "" {
		return utils.BadRequestResponse(c, "ride_id is required")
	}

	view, err := h.trackerUC.Track(c.Request().Context(), req.RideID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	nrpkg.FromEchoContext(c).AddAttribute("ride.id", req.RideID)
	return utils.SuccessResponse(c, http.StatusCreated, "Tracking ride", view)
}

// Resume restores the ride the device was tracking before a restart
func (h *SessionHandler) Resume(c echo.Context) error {
	view, err := h.trackerUC.Resume(c.Request().Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride resumed", view)
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	view, err := h.trackerUC.Session(c.Param("ride_id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", view)
}

func (h *SessionHandler) StopTracking(c echo.Context) error {
	if err := h.trackerUC.StopTracking(c.Param("ride_id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) Cancel(c echo.Context) error {
	rideID := c.Param("ride_id")
	var req models.CancelRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	view, err := h.trackerUC.Cancel(c.Request().Context(), rideID, req.Reason)
	if err != nil {
		logger.Warn("Cancel failed", logger.RideID(rideID), logger.Err(err))
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride cancelled", view)
}

func (h *SessionHandler) Accept(c echo.Context) error {
	view, err := h.trackerUC.Accept(c.Request().Context(), c.Param("ride_id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride accepted", view)
}

func (h *SessionHandler) Reject(c echo.Context) error {
	var req models.RejectRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if err := h.trackerUC.Reject(c.Request().Context(), c.Param("ride_id"), req.Reason); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride rejected", nil)
}

// Advance moves a driver's ride to the requested status
func (h *SessionHandler) Advance(c echo.Context) error {
	var req models.AdvanceStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	status, err := models.ParseRideStatus(string(req.Status))
	if err != nil {
		return utils.BadRequestResponse(c, "Unknown status: "+string(req.Status))
	}

	view, err := h.trackerUC.AdvanceStatus(c.Request().Context(), c.Param("ride_id"), status)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride status updated", view)
}

func (h *SessionHandler) RestartSearch(c echo.Context) error {
	if err := h.trackerUC.RestartSearch(c.Param("ride_id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Search restarted", nil)
}

// Acknowledge closes a finished session once the user has seen it
func (h *SessionHandler) Acknowledge(c echo.Context) error {
	if err := h.trackerUC.Acknowledge(c.Param("ride_id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) ListOffers(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "", h.trackerUC.Offers())
}

// SetVisibility pauses the search countdown while the screen is hidden
func (h *SessionHandler) SetVisibility(c echo.Context) error {
	var req visibilityRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	h.trackerUC.SetVisible(req.Visible)
	return c.NoContent(http.StatusNoContent)
}
