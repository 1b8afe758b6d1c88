package models

import "time"

// Fare is the price quoted or charged for a ride
type Fare struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// RideSnapshot is the server's view of a ride returned by the rides API
type RideSnapshot struct {
	RideID        string       `json:"ride_id"`
	Status        string       `json:"status"`
	Counterpart   *Counterpart `json:"counterpart,omitempty"`
	Pickup        Place        `json:"pickup"`
	Dropoff       Place        `json:"dropoff"`
	Fare          *Fare        `json:"fare,omitempty"`
	EtaSeconds    *int         `json:"eta_seconds,omitempty"`
	RoutePolyline string       `json:"route_polyline,omitempty"`
	CancelledBy   string       `json:"cancelled_by,omitempty"`
	CancelReason  string       `json:"cancel_reason,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// RideOffer is a ride request shown to a driver
type RideOffer struct {
	RideID     string    `json:"ride_id"`
	RiderName  string    `json:"rider_name,omitempty"`
	Pickup     Place     `json:"pickup"`
	Dropoff    Place     `json:"dropoff"`
	Fare       *Fare     `json:"fare,omitempty"`
	DistanceKm float64   `json:"distance_km,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// CancelRideRequest is the body of a rider cancel call
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RejectRideRequest is the body of a driver reject call
type RejectRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AdvanceStatusRequest is the body of a driver status change call
type AdvanceStatusRequest struct {
	Status RideStatus `json:"status"`
}

// ActiveRide points at the ride a device was tracking so it can resume
// after a restart
type ActiveRide struct {
	RideID    string     `json:"ride_id"`
	Role      Role       `json:"role"`
	Status    RideStatus `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
}
