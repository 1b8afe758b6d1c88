package models

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrTokenExpired     = errors.New("auth token expired")
	ErrTransportOffline = errors.New("transport offline")
	ErrUnknownStatus    = errors.New("unknown ride status")
	ErrRideNotFound     = errors.New("ride not found")
	ErrSessionNotFound  = errors.New("no session for ride")
	ErrRoleForbidden    = errors.New("action not allowed for role")
	ErrInvalidStatus    = errors.New("invalid target status")
	ErrTerminal         = errors.New("ride already finished")
	ErrNoActiveRide     = errors.New("no active ride")
	ErrOfferNotFound    = errors.New("ride offer not found")
	ErrRideActive       = errors.New("ride still in progress")
)

// TransportError describes a connect, auth or disconnect failure of the push channel
type TransportError struct {
	Op   string
	Auth bool
	Err  error
}

func (e *TransportError) Error() string {
	if e.Auth {
		return fmt.Sprintf("transport %s: auth: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PollError describes a failed reconciliation fetch
type PollError struct {
	RideID     string
	StatusCode int
	Err        error
}

func (e *PollError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("poll ride %s: status %d: %v", e.RideID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poll ride %s: %v", e.RideID, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// ActionError is returned to the caller when a user action fails.
// Session state is left unchanged.
type ActionError struct {
	Action     string
	RideID     string
	StatusCode int
	Err        error
}

func (e *ActionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s ride %s: status %d: %v", e.Action, e.RideID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s ride %s: %v", e.Action, e.RideID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Retryable reports whether the user may sensibly try the action again
func (e *ActionError) Retryable() bool {
	if errors.Is(e.Err, ErrRoleForbidden) || errors.Is(e.Err, ErrTerminal) ||
		errors.Is(e.Err, ErrInvalidStatus) || errors.Is(e.Err, ErrSessionNotFound) {
		return false
	}
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// HTTPStatusError carries a non-2xx response from the rides API
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// StatusCodeOf extracts the HTTP status from err, or 0
func StatusCodeOf(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
