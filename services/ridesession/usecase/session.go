package usecase

import (
	"sync"

	"github.com/piresc/ridetracker/internal/pkg/models"
)

// Change describes one state transition published by a Session
type Change struct {
	Prev    models.RideSession
	Next    models.RideSession
	Outcome models.UpdateOutcome
	Update  models.Update
}

// ChangeFunc observes session transitions. It runs with the session locked
// and must not call Apply or SetConnection.
type ChangeFunc func(Change)

// Session serializes every update to one ride
type Session struct {
	mu       sync.Mutex
	state    models.RideSession
	onChange ChangeFunc
	onResult func(models.Update, models.UpdateOutcome)
}

// NewSession creates a session starting at initial. onChange is called for
// every applied update, onResult for every update.
func NewSession(initial models.RideSession, onChange ChangeFunc, onResult func(models.Update, models.UpdateOutcome)) *Session {
	return &Session{state: initial, onChange: onChange, onResult: onResult}
}

// Apply merges u and publishes the new state before returning
func (s *Session) Apply(u models.Update) models.UpdateOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome := Reduce(s.state, u)
	prev := s.state
	if outcome.Applied {
		s.state = next
		if s.onChange != nil {
			s.onChange(Change{Prev: prev, Next: next.Clone(), Outcome: outcome, Update: u})
		}
	}
	if s.onResult != nil {
		s.onResult(u, outcome)
	}
	return outcome
}

// SetConnection records the user-visible connectivity. It reports whether
// the value changed.
func (s *Session) SetConnection(c models.ConnectionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Connection == c {
		return false
	}
	prev := s.state
	s.state.Connection = c
	if s.onChange != nil {
		s.onChange(Change{Prev: prev, Next: s.state.Clone(), Outcome: models.UpdateOutcome{Applied: true}})
	}
	return true
}

// Current returns a copy of the session state
func (s *Session) Current() models.RideSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Terminal reports whether the ride completed or was cancelled
func (s *Session) Terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsTerminal()
}
