package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/services/ridesession/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*echo.Echo, *mocks.MockTrackerUC) {
	ctrl := gomock.NewController(t)
	trackerUC := mocks.NewMockTrackerUC(ctrl)

	e := echo.New()
	NewSessionHandler(trackerUC).RegisterRoutes(e.Group(""))
	return e, trackerUC
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func view(rideID string, status models.RideStatus) models.SessionView {
	return models.SessionView{RideSession: models.NewRideSession(rideID, models.RoleRider, status)}
}

func TestSessionHandler_Track(t *testing.T) {
	e, trackerUC := setupServer(t)
	trackerUC.EXPECT().Track(gomock.Any(), "ride-1").Return(view("ride-1", models.RideStatusRequesting), nil)

	rec := do(e, http.MethodPost, "/sessions", `{"ride_id":"ride-1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "ride-1", data["ride_id"])
	assert.Equal(t, "requesting", data["status"])

	rec = do(e, http.MethodPost, "/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_GetSession(t *testing.T) {
	e, trackerUC := setupServer(t)
	trackerUC.EXPECT().Session("ride-1").Return(view("ride-1", models.RideStatusMatched), nil)
	trackerUC.EXPECT().Session("ride-2").Return(models.SessionView{}, models.ErrSessionNotFound)

	rec := do(e, http.MethodGet, "/sessions/ride-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/sessions/ride-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestSessionHandler_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{name: "success", wantStatus: http.StatusOK},
		{
			name:       "rides API down",
			err:        &models.ActionError{Action: "cancel", RideID: "ride-1", StatusCode: http.StatusServiceUnavailable, Err: assertErr("unavailable")},
			wantStatus: http.StatusBadGateway,
			retryable:  true,
		},
		{
			name:       "already finished",
			err:        &models.ActionError{Action: "cancel", RideID: "ride-1", Err: models.ErrTerminal},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "driver cannot cancel",
			err:        &models.ActionError{Action: "cancel", RideID: "ride-1", Err: models.ErrRoleForbidden},
			wantStatus: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, trackerUC := setupServer(t)
			trackerUC.EXPECT().Cancel(gomock.Any(), "ride-1", "changed plans").
				Return(view("ride-1", models.RideStatusCancelled), tt.err)

			rec := do(e, http.MethodPost, "/sessions/ride-1/cancel", `{"reason":"changed plans"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.err != nil {
				assert.Equal(t, tt.retryable, decode(t, rec)["retryable"] == true)
			}
		})
	}
}

func TestSessionHandler_Advance(t *testing.T) {
	e, trackerUC := setupServer(t)
	trackerUC.EXPECT().AdvanceStatus(gomock.Any(), "ride-1", models.RideStatusInTransit).
		Return(view("ride-1", models.RideStatusInTransit), nil)

	rec := do(e, http.MethodPost, "/sessions/ride-1/advance", `{"status":"in-progress"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/sessions/ride-1/advance", `{"status":"flying"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_DriverActions(t *testing.T) {
	e, trackerUC := setupServer(t)
	trackerUC.EXPECT().Accept(gomock.Any(), "ride-7").Return(view("ride-7", models.RideStatusMatched), nil)
	trackerUC.EXPECT().Reject(gomock.Any(), "ride-8", "too far").Return(nil)
	trackerUC.EXPECT().Offers().Return([]models.RideOffer{{RideID: "ride-9"}})

	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/sessions/ride-7/accept", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/sessions/ride-8/reject", `{"reason":"too far"}`).Code)

	rec := do(e, http.MethodGet, "/offers", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	offers := decode(t, rec)["data"].([]interface{})
	assert.Len(t, offers, 1)
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	e, trackerUC := setupServer(t)
	gomock.InOrder(
		trackerUC.EXPECT().RestartSearch("ride-1").Return(nil),
		trackerUC.EXPECT().Acknowledge("ride-1").Return(models.ErrRideActive),
		trackerUC.EXPECT().StopTracking("ride-1").Return(nil),
	)
	trackerUC.EXPECT().SetVisible(false)
	trackerUC.EXPECT().Resume(gomock.Any()).Return(models.SessionView{}, models.ErrNoActiveRide)
	trackerUC.EXPECT().Sessions().Return(nil)

	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/sessions/ride-1/search/restart", "").Code)
	assert.Equal(t, http.StatusConflict, do(e, http.MethodPost, "/sessions/ride-1/ack", "").Code)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/sessions/ride-1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPut, "/visibility", `{"visible":false}`).Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodPost, "/sessions/resume", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/sessions", "").Code)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
