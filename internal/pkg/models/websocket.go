package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage is returned for frames that are not a push envelope
var ErrMalformedMessage = errors.New("malformed push message")

// WSMessage is the {"event","data"} envelope shared by the push channel and
// the UI stream
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSErrorMessage is the payload of an error event sent to a UI client
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewWSMessage marshals data into an envelope for event
func NewWSMessage(event string, data interface{}) (WSMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return WSMessage{}, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return WSMessage{Event: event, Data: raw}, nil
}

// DecodeWSMessage parses one frame. Frames that are not JSON objects or carry
// no event name fail with ErrMalformedMessage.
func DecodeWSMessage(frame []byte) (WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return WSMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Event == "" {
		return WSMessage{}, fmt.Errorf("%w: missing event", ErrMalformedMessage)
	}
	return msg, nil
}
