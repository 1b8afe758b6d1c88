package usecase

import (
	"reflect"

	"github.com/piresc/ridetracker/internal/pkg/models"
)

// Reduce merges u into cur and returns the resulting session. It is pure:
// cur is never modified and the result shares no pointers with u.
func Reduce(cur models.RideSession, u models.Update) (models.RideSession, models.UpdateOutcome) {
	if cur.IsTerminal() {
		return cur, discard(models.DiscardTerminal)
	}
	if u.RideID != cur.RideID {
		return cur, discard(models.DiscardRideMismatch)
	}

	next := cur.Clone()
	var outcome models.UpdateOutcome

	switch u.Kind {
	case models.UpdateCancellation:
		if u.Cancellation == nil {
			return cur, discard(models.DiscardInvalid)
		}
		cancel(&next, *u.Cancellation, u)
		outcome = models.UpdateOutcome{Applied: true, StatusChanged: true}

	case models.UpdateStatus:
		switch {
		case u.Status == models.RideStatusCancelled:
			cancel(&next, models.Cancellation{CancelledBy: models.CancelledBySystem}, u)
			outcome = models.UpdateOutcome{Applied: true, StatusChanged: true}
		case !u.Status.Valid():
			return cur, discard(models.DiscardInvalid)
		case !cur.Status.Advances(u.Status):
			return cur, discard(models.DiscardNotAdvanced)
		default:
			next.Status = u.Status
			outcome = models.UpdateOutcome{Applied: true, StatusChanged: true}
		}

	case models.UpdateCounterpartFound:
		if u.Counterpart == nil {
			return cur, discard(models.DiscardInvalid)
		}
		advances := cur.Status.Advances(models.RideStatusMatched)
		if !advances && reflect.DeepEqual(cur.Counterpart, u.Counterpart) {
			return cur, discard(models.DiscardNotAdvanced)
		}
		next.Counterpart = cloneCounterpart(u.Counterpart)
		if u.EtaSeconds != nil {
			next.EtaSeconds = *u.EtaSeconds
		}
		if advances {
			next.Status = models.RideStatusMatched
		}
		outcome = models.UpdateOutcome{Applied: true, StatusChanged: advances}

	case models.UpdateLocation:
		if u.Location == nil {
			return cur, discard(models.DiscardInvalid)
		}
		if held := cur.CounterpartLocation; held != nil && u.Location.Timestamp.Before(held.Timestamp) {
			return cur, discard(models.DiscardStale)
		}
		loc := *u.Location
		next.CounterpartLocation = &loc
		outcome = models.UpdateOutcome{Applied: true}

	case models.UpdateSnapshot:
		outcome = mergeSnapshot(&next, u)

	default:
		return cur, discard(models.DiscardInvalid)
	}

	if u.Source == models.SourcePush && !u.ReceivedAt.IsZero() {
		next.LastPushAt = u.ReceivedAt
	}
	return next, outcome
}

// mergeSnapshot refreshes the non-status fields and applies the snapshot
// status only when it moves forward. Location is left alone.
func mergeSnapshot(next *models.RideSession, u models.Update) models.UpdateOutcome {
	if u.Counterpart != nil {
		next.Counterpart = cloneCounterpart(u.Counterpart)
	}
	if u.Fare != nil {
		fare := *u.Fare
		next.Fare = &fare
	}
	if u.EtaSeconds != nil {
		next.EtaSeconds = *u.EtaSeconds
	}
	if len(u.Route) > 0 {
		next.Route = append([]models.GeoPoint(nil), u.Route...)
	}
	if u.Pickup != nil && next.Pickup.IsZero() {
		next.Pickup = *u.Pickup
	}
	if u.Dropoff != nil && next.Dropoff.IsZero() {
		next.Dropoff = *u.Dropoff
	}
	if u.Source == models.SourcePoll && !u.ReceivedAt.IsZero() {
		next.LastReconciledAt = u.ReceivedAt
	}

	outcome := models.UpdateOutcome{Applied: true}
	switch {
	case u.Status == models.RideStatusCancelled:
		c := models.Cancellation{CancelledBy: models.CancelledBySystem}
		if u.Cancellation != nil {
			c = *u.Cancellation
		}
		cancel(next, c, u)
		outcome.StatusChanged = true
	case next.Status.Advances(u.Status):
		next.Status = u.Status
		outcome.StatusChanged = true
	case u.Status.Valid() && u.Status != next.Status:
		outcome.Reason = models.DiscardNotAdvanced
	}
	return outcome
}

func cancel(next *models.RideSession, c models.Cancellation, u models.Update) {
	if c.CancelledBy == "" {
		c.CancelledBy = models.CancelledBySystem
	}
	if c.CancelledAt.IsZero() {
		c.CancelledAt = u.ReceivedAt
	}
	next.Status = models.RideStatusCancelled
	next.Cancellation = &c
}

func cloneCounterpart(c *models.Counterpart) *models.Counterpart {
	cp := *c
	if c.Vehicle != nil {
		v := *c.Vehicle
		cp.Vehicle = &v
	}
	return &cp
}

func discard(reason string) models.UpdateOutcome {
	return models.UpdateOutcome{Reason: reason}
}
