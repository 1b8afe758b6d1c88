package models

import "time"

// UpdateSource tells where an update came from
type UpdateSource string

const (
	SourcePush   UpdateSource = "push"
	SourcePoll   UpdateSource = "poll"
	SourceAction UpdateSource = "action"
)

// UpdateKind selects which merge rule applies
type UpdateKind string

const (
	UpdateSnapshot         UpdateKind = "snapshot"
	UpdateCounterpartFound UpdateKind = "counterpart_found"
	UpdateStatus           UpdateKind = "status"
	UpdateLocation         UpdateKind = "location"
	UpdateCancellation     UpdateKind = "cancellation"
)

// Update is a single proposed change to a RideSession. Only the fields
// relevant to Kind are read.
type Update struct {
	Source       UpdateSource
	Kind         UpdateKind
	RideID       string
	Status       RideStatus
	Counterpart  *Counterpart
	EtaSeconds   *int
	Fare         *Fare
	Route        []GeoPoint
	Pickup       *Place
	Dropoff      *Place
	Location     *Location
	Cancellation *Cancellation
	ReceivedAt   time.Time
}

// UpdateOutcome reports what the reducer did with an update
type UpdateOutcome struct {
	Applied       bool
	StatusChanged bool
	Reason        string
}

// Discard reasons
const (
	DiscardTerminal     = "terminal"
	DiscardRideMismatch = "ride_mismatch"
	DiscardNotAdvanced  = "not_advanced"
	DiscardStale        = "stale"
	DiscardInvalid      = "invalid"
)
