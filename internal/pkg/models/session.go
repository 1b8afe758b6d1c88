package models

import (
	"strings"
	"time"
)

// Role identifies which side of the ride the local user is on
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleDriver
}

// Other returns the counterpart role
func (r Role) Other() Role {
	if r == RoleRider {
		return RoleDriver
	}
	return RoleRider
}

// RideStatus represents the lifecycle position of a ride
type RideStatus string

const (
	RideStatusRequesting RideStatus = "requesting"
	RideStatusMatched    RideStatus = "matched"
	RideStatusArrived    RideStatus = "arrived"
	RideStatusInTransit  RideStatus = "in_transit"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

var statusRank = map[RideStatus]int{
	RideStatusRequesting: 1,
	RideStatusMatched:    2,
	RideStatusArrived:    3,
	RideStatusInTransit:  4,
	RideStatusCompleted:  5,
}

// Rank returns the position of s along the forward chain. Unknown and
// cancelled statuses rank 0.
func (s RideStatus) Rank() int {
	return statusRank[s]
}

// IsTerminal reports whether no further status change may happen
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Valid reports whether s is a known status
func (s RideStatus) Valid() bool {
	return s == RideStatusCancelled || s.Rank() > 0
}

// Advances reports whether moving from s to next goes forward along the chain
func (s RideStatus) Advances(next RideStatus) bool {
	return next.Rank() > s.Rank()
}

var statusAliases = map[string]RideStatus{
	"requesting":        RideStatusRequesting,
	"searching":         RideStatusRequesting,
	"pending":           RideStatusRequesting,
	"matched":           RideStatusMatched,
	"accepted":          RideStatusMatched,
	"driver_assigned":   RideStatusMatched,
	"arrived":           RideStatusArrived,
	"driver_arrived":    RideStatusArrived,
	"in_transit":        RideStatusInTransit,
	"intransit":         RideStatusInTransit,
	"in_progress":       RideStatusInTransit,
	"ongoing":           RideStatusInTransit,
	"completed":         RideStatusCompleted,
	"complete":          RideStatusCompleted,
	"finished":          RideStatusCompleted,
	"dropoff_completed": RideStatusCompleted,
	"trip_completed":    RideStatusCompleted,
}

// ParseRideStatus normalizes a server status string. Any value starting with
// "cancel" maps to cancelled.
func ParseRideStatus(raw string) (RideStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if strings.HasPrefix(s, "cancel") {
		return RideStatusCancelled, nil
	}
	if status, ok := statusAliases[s]; ok {
		return status, nil
	}
	return "", ErrUnknownStatus
}

// CancelledBy names the party that cancelled, relative to the local user
type CancelledBy string

const (
	CancelledByRider       CancelledBy = "rider"
	CancelledByDriver      CancelledBy = "driver"
	CancelledByCounterpart CancelledBy = "counterpart"
	CancelledBySystem      CancelledBy = "system"
)

// ResolveCancelledBy maps a server-side party name onto the local point of view
func ResolveCancelledBy(raw string, local Role) CancelledBy {
	party := strings.ToLower(strings.TrimSpace(raw))
	if party == "customer" || party == "passenger" {
		party = string(RoleRider)
	}
	switch party {
	case string(local):
		return CancelledBy(local)
	case string(local.Other()), string(CancelledByCounterpart):
		return CancelledByCounterpart
	default:
		return CancelledBySystem
	}
}

// Cancellation is set once when a ride is cancelled
type Cancellation struct {
	CancelledBy CancelledBy `json:"cancelled_by"`
	Reason      string      `json:"reason,omitempty"`
	CancelledAt time.Time   `json:"cancelled_at"`
}

// Vehicle describes the driver's vehicle
type Vehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
	Plate string `json:"plate,omitempty"`
}

// Counterpart is the other party of the ride as seen by the local user
type Counterpart struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Phone   string   `json:"phone,omitempty"`
	Rating  float64  `json:"rating,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// Place is an address with its coordinate
type Place struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether p carries no data
func (p Place) IsZero() bool {
	return p.Address == "" && p.Latitude == 0 && p.Longitude == 0
}

// Point returns the coordinate of p
func (p Place) Point() GeoPoint {
	return GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}
}

// ConnectionState is the user-visible connectivity of a session
type ConnectionState string

const (
	ConnectionOK      ConnectionState = "ok"
	ConnectionProblem ConnectionState = "problem"
)

// RideSession is the device-local view of one ride
type RideSession struct {
	RideID              string          `json:"ride_id"`
	Role                Role            `json:"role"`
	Status              RideStatus      `json:"status"`
	Counterpart         *Counterpart    `json:"counterpart,omitempty"`
	Pickup              Place           `json:"pickup"`
	Dropoff             Place           `json:"dropoff"`
	CounterpartLocation *Location       `json:"counterpart_location,omitempty"`
	Cancellation        *Cancellation   `json:"cancellation,omitempty"`
	Fare                *Fare           `json:"fare,omitempty"`
	EtaSeconds          int             `json:"eta_seconds,omitempty"`
	Route               []GeoPoint      `json:"route,omitempty"`
	Connection          ConnectionState `json:"connection"`
	LastReconciledAt    time.Time       `json:"last_reconciled_at,omitempty"`
	LastPushAt          time.Time       `json:"last_push_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// NewRideSession creates a session for rideID in its initial state
func NewRideSession(rideID string, role Role, status RideStatus) RideSession {
	if !status.Valid() {
		status = RideStatusRequesting
	}
	return RideSession{
		RideID:     rideID,
		Role:       role,
		Status:     status,
		Connection: ConnectionOK,
		CreatedAt:  Now(),
	}
}

// IsTerminal reports whether the session reached completed or cancelled
func (s RideSession) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// Clone returns a deep copy so callers can't mutate shared state
func (s RideSession) Clone() RideSession {
	out := s
	if s.Counterpart != nil {
		cp := *s.Counterpart
		if s.Counterpart.Vehicle != nil {
			v := *s.Counterpart.Vehicle
			cp.Vehicle = &v
		}
		out.Counterpart = &cp
	}
	if s.CounterpartLocation != nil {
		loc := *s.CounterpartLocation
		out.CounterpartLocation = &loc
	}
	if s.Cancellation != nil {
		c := *s.Cancellation
		out.Cancellation = &c
	}
	if s.Fare != nil {
		f := *s.Fare
		out.Fare = &f
	}
	if s.Route != nil {
		out.Route = append([]GeoPoint(nil), s.Route...)
	}
	return out
}

// SessionView is a RideSession enriched for display
type SessionView struct {
	RideSession
	// CounterpartDistanceKm is the straight-line distance from the
	// counterpart to the pickup point
	CounterpartDistanceKm *float64 `json:"counterpart_distance_km,omitempty"`
	CounterpartCell       string   `json:"counterpart_cell,omitempty"`
}
