package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/requestcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPanicRecoveryWithZapMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		panicValue interface{}
		expectType string
	}{
		{name: "string panic", panicValue: "test panic message", expectType: "string"},
		{name: "error panic", panicValue: errors.New("test error panic"), expectType: "*errors.errorString"},
		{name: "int panic", panicValue: 42, expectType: "int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			e := echo.New()
			e.Use(PanicRecoveryWithZapMiddleware(logger.NewFromZap(zap.New(core))))
			e.GET("/boom", func(c echo.Context) error { panic(tt.panicValue) })

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-9")
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "unexpected error")

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "Panic recovered during request processing", entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, tt.expectType, fields["panic_type"])
			assert.Equal(t, "req-9", fields["request_id"])
			assert.NotEmpty(t, fields["stack_trace"])
		})
	}
}

func TestPanicRecoveryWithZapMiddleware_RequiresLogger(t *testing.T) {
	assert.Panics(t, func() { PanicRecoveryWithZapMiddleware(nil) })
}

func TestBearerTokenMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		header         string
		expectedStatus int
	}{
		{name: "Disabled without token", token: "", header: "", expectedStatus: http.StatusOK},
		{name: "Missing header", token: "s3cret", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", token: "s3cret", header: "Basic s3cret", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong token", token: "s3cret", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "Valid token", token: "s3cret", header: "Bearer s3cret", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(BearerTokenMiddleware(tt.token))
			e.GET("/sessions", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequestContextMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestContextMiddleware("ridetracker"))

	var seenRequestID, seenService string
	e.GET("/sessions", func(c echo.Context) error {
		seenRequestID = requestcontext.GetRequestID(c.Request().Context())
		seenService = requestcontext.GetServiceName(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", seenRequestID)
	assert.Equal(t, "ridetracker", seenService)
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))
	assert.NotEmpty(t, rec.Header().Get(requestcontext.TraceIDHeader))
}
