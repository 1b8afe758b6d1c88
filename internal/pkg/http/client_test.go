package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/requestcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ridePayload struct {
	RideID string `json:"ride_id"`
	Status string `json:"status"`
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name            string
		config          Config
		expectedBaseURL string
		expectedTimeout time.Duration
	}{
		{
			name:            "Valid configuration",
			config:          Config{BaseURL: "https://rides.example.com", Timeout: 30 * time.Second},
			expectedBaseURL: "https://rides.example.com",
			expectedTimeout: 30 * time.Second,
		},
		{
			name:            "Trailing slash is trimmed",
			config:          Config{BaseURL: "https://rides.example.com/"},
			expectedBaseURL: "https://rides.example.com",
			expectedTimeout: DefaultTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.config)

			assert.Equal(t, tt.expectedBaseURL, client.baseURL)
			assert.Equal(t, tt.expectedTimeout, client.httpClient.Timeout)
		})
	}
}

func TestClient_GetJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Envelope", body: `{"success":true,"data":{"ride_id":"r1","status":"matched"}}`},
		{name: "Bare object", body: `{"ride_id":"r1","status":"matched"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/rides/r1", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL, Tokens: jwt.StaticToken("tok")})

			var got ridePayload
			err := client.GetJSON(context.Background(), "/rides/r1", &got)

			require.NoError(t, err)
			assert.Equal(t, ridePayload{RideID: "r1", Status: "matched"}, got)
		})
	}
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rides/r1/cancel", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "trace-42", r.Header.Get(requestcontext.TraceIDHeader))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload models.CancelRideRequest
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "changed plans", payload.Reason)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	ctx := requestcontext.WithRequestContext(context.Background(), &requestcontext.RequestContext{
		RequestID: "req-42",
		TraceID:   "trace-42",
	})

	err := client.PostJSON(ctx, "/rides/r1/cancel", models.CancelRideRequest{Reason: "changed plans"}, nil)
	assert.NoError(t, err)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "Not found", statusCode: http.StatusNotFound},
		{name: "Conflict", statusCode: http.StatusConflict},
		{name: "Server error", statusCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"success":false,"error":"nope"}`))
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL})

			var got ridePayload
			err := client.GetJSON(context.Background(), "/rides/r1", &got)

			require.Error(t, err)
			var statusErr *models.HTTPStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.statusCode, statusErr.StatusCode)
			assert.Contains(t, statusErr.Body, "nope")
			assert.Equal(t, tt.statusCode, models.StatusCodeOf(err))
		})
	}
}

func TestClient_TokenError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Tokens: jwt.StaticToken("")})

	err := client.GetJSON(context.Background(), "/rides/r1", nil)
	assert.ErrorIs(t, err, models.ErrAuthRejected)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.GetJSON(ctx, "/rides/r1", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, models.StatusCodeOf(err))
}
