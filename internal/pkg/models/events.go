package models

import "time"

// CounterpartFoundEvent is pushed when a driver is matched to the ride
type CounterpartFoundEvent struct {
	RideID      string      `json:"ride_id"`
	Counterpart Counterpart `json:"counterpart"`
	EtaSeconds  *int        `json:"eta_seconds,omitempty"`
}

// CounterpartLocationEvent carries the counterpart's latest position
type CounterpartLocationEvent struct {
	RideID   string   `json:"ride_id"`
	Location Location `json:"location"`
}

// RideStatusEvent is pushed when the server moves the ride to a new status
type RideStatusEvent struct {
	RideID string `json:"ride_id"`
	Status string `json:"status"`
}

// RideCancelledEvent is pushed when the ride is cancelled server side
type RideCancelledEvent struct {
	RideID      string    `json:"ride_id"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelled_at,omitempty"`
}

// NewRideRequestEvent offers a candidate ride to a driver
type NewRideRequestEvent struct {
	RideOffer
}

// RideTakenEvent retracts an offer claimed by another driver
type RideTakenEvent struct {
	RideID string `json:"ride_id"`
}
