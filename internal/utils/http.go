package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      int    `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// SuccessResponse sends a success response with data
func SuccessResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// errorResponse sends an error envelope with the status echoed in the body
func errorResponse(c echo.Context, statusCode int, errorMessage string) error {
	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorMessage,
		Code:    statusCode,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string) error {
	return errorResponse(c, http.StatusBadRequest, errorMessage)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, errorMessage string) error {
	return errorResponse(c, http.StatusUnauthorized, errorMessage)
}

// DomainErrorResponse maps tracker errors onto HTTP statuses
func DomainErrorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrNoActiveRide),
		errors.Is(err, models.ErrOfferNotFound), errors.Is(err, models.ErrRideNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrRoleForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrTerminal), errors.Is(err, models.ErrRideActive):
		status = http.StatusConflict
	}

	resp := ErrorResponse{Success: false, Error: err.Error()}

	var actionErr *models.ActionError
	if errors.As(err, &actionErr) {
		resp.Retryable = actionErr.Retryable()
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
	}

	resp.Code = status
	return c.JSON(status, resp)
}
