package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubServer(t *testing.T, m *Manager, onConnect func(*Client)) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return m.HandleConnection(c, onConnect)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func readMessage(t *testing.T, ws *websocket.Conn) models.WSMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.WSMessage
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestManager_InitialMessageAndBroadcast(t *testing.T) {
	m := NewManager("")
	srv := hubServer(t, m, func(c *Client) {
		_ = m.SendMessage(c, "session_state", map[string]string{"status": "requesting"})
	})

	ws, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	first := readMessage(t, ws)
	assert.Equal(t, "session_state", first.Event)
	assert.JSONEq(t, `{"status":"requesting"}`, string(first.Data))

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	m.Broadcast("search_countdown", map[string]int{"remaining": 17})

	second := readMessage(t, ws)
	assert.Equal(t, "search_countdown", second.Event)
	var payload map[string]int
	require.NoError(t, json.Unmarshal(second.Data, &payload))
	assert.Equal(t, 17, payload["remaining"])

	ws.Close()
	require.Eventually(t, func() bool { return m.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_RequiresToken(t *testing.T) {
	m := NewManager("ui-secret")
	srv := hubServer(t, m, nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set("Authorization", "Bearer ui-secret")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"/ws", header)
	require.NoError(t, err)
	ws.Close()

	ws, _, err = websocket.DefaultDialer.Dial(wsURL(srv)+"/ws?token=ui-secret", nil)
	require.NoError(t, err)
	ws.Close()
}

func TestManager_ClientFrames(t *testing.T) {
	m := NewManager("")
	srv := hubServer(t, m, nil)

	ws, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(models.WSMessage{Event: "ping", Data: json.RawMessage(`{"n":1}`)}))
	pong := readMessage(t, ws)
	assert.Equal(t, "pong", pong.Event)
	assert.JSONEq(t, `{"n":1}`, string(pong.Data))

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	bad := readMessage(t, ws)
	assert.Equal(t, "error", bad.Event)
	var errPayload models.WSErrorMessage
	require.NoError(t, json.Unmarshal(bad.Data, &errPayload))
	assert.Equal(t, "invalid_format", errPayload.Code)

	require.NoError(t, ws.WriteJSON(models.WSMessage{Event: "cancel", Data: json.RawMessage(`{}`)}))
	unsupported := readMessage(t, ws)
	require.NoError(t, json.Unmarshal(unsupported.Data, &errPayload))
	assert.Equal(t, "unsupported_event", errPayload.Code)
	assert.Contains(t, errPayload.Message, `"cancel"`)
}
