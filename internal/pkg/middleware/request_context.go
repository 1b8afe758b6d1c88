package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/requestcontext"
)

// RequestContextMiddleware stores request and trace ids on the request
// context so use cases forward them to the rides API
func RequestContextMiddleware(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqCtx := requestcontext.FromEchoContext(c)
			reqCtx.ServiceName = serviceName

			ctx := requestcontext.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)
			c.Response().Header().Set(requestcontext.TraceIDHeader, reqCtx.TraceID)

			return next(c)
		}
	}
}
