package constants

// Push channel event names
const (
	EventCounterpartFound           = "counterpart-found"
	EventCounterpartLocationUpdated = "counterpart-location-updated"
	EventRideStatusUpdated          = "ride-status-updated"
	EventRideCancelled              = "ride-cancelled"

	// Driver only
	EventNewRideRequest = "new-ride-request"
	EventRideTaken      = "ride-taken"

	EventPing = "ping"
	EventPong = "pong"
)

// RideEvents are the events subscribed for every tracked ride
var RideEvents = []string{
	EventCounterpartFound,
	EventCounterpartLocationUpdated,
	EventRideStatusUpdated,
	EventRideCancelled,
}

// Presentation stream events sent to UI clients
const (
	EventSessionState    = "session_state"
	EventSessionClosed   = "session_closed"
	EventSearchCountdown = "search_countdown"
	EventSearchTimeout   = "search_timeout"
	EventOffersUpdated   = "offers_updated"
	EventConnection      = "connection_state"
	EventError           = "error"
)

// Presentation stream error codes
const (
	ErrorInvalidFormat = "invalid_format"
	ErrorInternalError = "internal_error"
)
