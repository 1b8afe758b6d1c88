package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/utils"
)

// SnapshotUpdate converts a rides API snapshot into a session update. An
// unknown status leaves Status empty so only the other fields merge.
func SnapshotUpdate(snap *models.RideSnapshot, local models.Role, source models.UpdateSource, now time.Time) models.Update {
	u := models.Update{
		Source:      source,
		Kind:        models.UpdateSnapshot,
		RideID:      snap.RideID,
		Counterpart: snap.Counterpart,
		EtaSeconds:  snap.EtaSeconds,
		Fare:        snap.Fare,
		ReceivedAt:  now,
	}

	status, err := models.ParseRideStatus(snap.Status)
	if err != nil {
		logger.Warn("Ignoring unknown snapshot status",
			logger.RideID(snap.RideID),
			logger.String("status", snap.Status))
	}
	// Some backends keep reporting requesting for a moment after a driver
	// was assigned.
	if status == models.RideStatusRequesting && snap.Counterpart != nil {
		status = models.RideStatusMatched
	}
	u.Status = status

	if status == models.RideStatusCancelled {
		cancelledAt := snap.UpdatedAt
		if cancelledAt.IsZero() {
			cancelledAt = now
		}
		u.Cancellation = &models.Cancellation{
			CancelledBy: models.ResolveCancelledBy(snap.CancelledBy, local),
			Reason:      snap.CancelReason,
			CancelledAt: cancelledAt,
		}
	}

	if snap.RoutePolyline != "" {
		u.Route = utils.DecodePolyline(snap.RoutePolyline)
	}
	if !snap.Pickup.IsZero() {
		pickup := snap.Pickup
		u.Pickup = &pickup
	}
	if !snap.Dropoff.IsZero() {
		dropoff := snap.Dropoff
		u.Dropoff = &dropoff
	}
	return u
}

// PushUpdate decodes a ride event payload into a session update
func PushUpdate(event string, data json.RawMessage, local models.Role, now time.Time) (models.Update, error) {
	u := models.Update{Source: models.SourcePush, ReceivedAt: now}

	switch event {
	case constants.EventCounterpartFound:
		var ev models.CounterpartFoundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return u, fmt.Errorf("decode %s: %w", event, err)
		}
		u.Kind = models.UpdateCounterpartFound
		u.RideID = ev.RideID
		u.Counterpart = &ev.Counterpart
		u.EtaSeconds = ev.EtaSeconds

	case constants.EventCounterpartLocationUpdated:
		var ev models.CounterpartLocationEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return u, fmt.Errorf("decode %s: %w", event, err)
		}
		if ev.Location.Timestamp.IsZero() {
			ev.Location.Timestamp = now
		}
		u.Kind = models.UpdateLocation
		u.RideID = ev.RideID
		u.Location = &ev.Location

	case constants.EventRideStatusUpdated:
		var ev models.RideStatusEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return u, fmt.Errorf("decode %s: %w", event, err)
		}
		status, err := models.ParseRideStatus(ev.Status)
		if err != nil {
			return u, fmt.Errorf("decode %s: %q: %w", event, ev.Status, err)
		}
		u.Kind = models.UpdateStatus
		u.RideID = ev.RideID
		u.Status = status

	case constants.EventRideCancelled:
		var ev models.RideCancelledEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return u, fmt.Errorf("decode %s: %w", event, err)
		}
		cancelledAt := ev.CancelledAt
		if cancelledAt.IsZero() {
			cancelledAt = now
		}
		u.Kind = models.UpdateCancellation
		u.RideID = ev.RideID
		u.Cancellation = &models.Cancellation{
			CancelledBy: models.ResolveCancelledBy(ev.CancelledBy, local),
			Reason:      ev.Reason,
			CancelledAt: cancelledAt,
		}

	default:
		return u, fmt.Errorf("unsupported ride event %q", event)
	}
	return u, nil
}

// NewSessionView adds the counterpart's distance to pickup and its geohash cell
func NewSessionView(s models.RideSession) models.SessionView {
	view := models.SessionView{RideSession: s}
	if s.CounterpartLocation == nil {
		return view
	}
	view.CounterpartCell = utils.EncodeLocation(*s.CounterpartLocation, utils.CounterpartCellPrecision)
	if !s.Pickup.IsZero() {
		km := utils.CalculateDistance(s.CounterpartLocation.Point(), s.Pickup.Point())
		view.CounterpartDistanceKm = &km
	}
	return view
}
