package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server   *httptest.Server
	sessions *session.Manager
	metrics  *monitoring.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := registry.NewManager()
	require.NoError(t, registry.NewSeeder(reg, nil).SeedDefaults())

	cfg := session.DefaultConfig()
	cfg.ExternalCloseDelay = 20 * time.Millisecond

	metrics := monitoring.NewMetrics()
	sessions := session.NewManager(reg, cfg).WithMetrics(metrics)

	tracer := tracing.New("test", nil)
	t.Cleanup(tracer.Close)

	handler := NewHandler(sessions, shell.New(reg, shell.DefaultConfig()), nil).
		WithMetrics(metrics).
		WithTracer(tracer)

	router := gin.New()
	router.GET("/sessions/:id/stream", handler.HandleConnection)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &fixture{server: server, sessions: sessions, metrics: metrics}
}

func (f *fixture) dial(t *testing.T, sessionID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/sessions/" + sessionID + "/stream"
	return websocket.DefaultDialer.Dial(url, nil)
}

func (f *fixture) connect(t *testing.T) (*websocket.Conn, *session.Desktop) {
	t.Helper()
	d := f.sessions.Create(types.Viewport{Width: 1280, Height: 800})

	conn, _, err := f.dial(t, d.ID())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := readType(t, conn, "system")
	assert.Equal(t, d.ID(), welcome["session"].(map[string]interface{})["id"])
	return conn, d
}

// readType reads frames until one of the given type arrives
func readType(t *testing.T, conn *websocket.Conn, msgType string) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame map[string]interface{}
		require.NoError(t, conn.ReadJSON(&frame))
		if frame["type"] == msgType {
			return frame
		}
	}
}

// readAck reads frames until the ack or error for request arrives
func readAck(t *testing.T, conn *websocket.Conn, request string) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame map[string]interface{}
		require.NoError(t, conn.ReadJSON(&frame))
		if (frame["type"] == "ack" || frame["type"] == "error") && frame["request"] == request {
			return frame
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg types.WSMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func windowsOf(t *testing.T, frame map[string]interface{}) []interface{} {
	t.Helper()
	snap, ok := frame["snapshot"].(map[string]interface{})
	require.True(t, ok)
	windows, _ := snap["windows"].([]interface{})
	return windows
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, resp, err := f.dial(t, "sess_missing")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBootThenOpen(t *testing.T) {
	f := newFixture(t)
	conn, _ := f.connect(t)

	// Desktop commands are refused while booting
	send(t, conn, types.WSMessage{Type: MsgOpen, AppID: "notepad"})
	reply := readAck(t, conn, MsgOpen)
	assert.Equal(t, "error", reply["type"])
	assert.Contains(t, reply["message"], "booting")

	send(t, conn, types.WSMessage{Type: MsgBootComplete})
	state := readType(t, conn, "state")
	assert.Equal(t, string(types.SessionDesktop), state["state"])
	assert.Equal(t, true, readAck(t, conn, MsgBootComplete)["success"])

	send(t, conn, types.WSMessage{Type: MsgOpen, AppID: "notepad"})
	snap := readType(t, conn, "snapshot")
	require.Len(t, windowsOf(t, snap), 1)

	reply = readAck(t, conn, MsgOpen)
	assert.Equal(t, true, reply["success"])
	window := reply["window"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"x": float64(100), "y": float64(50)}, window["position"])

	assert.Equal(t, int64(1), f.metrics.Snapshot().ActiveConnections)
}

func TestDragOverStream(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)
	require.True(t, d.CompleteBoot())

	send(t, conn, types.WSMessage{Type: MsgOpen, AppID: "terminal"})
	readAck(t, conn, MsgOpen)

	send(t, conn, types.WSMessage{Type: MsgPointerDownTitle, WindowID: "terminal", X: 110, Y: 60})
	assert.Equal(t, true, readAck(t, conn, MsgPointerDownTitle)["success"])

	send(t, conn, types.WSMessage{Type: MsgPointerMove, X: 210, Y: 160})
	reply := readAck(t, conn, MsgPointerMove)
	window := reply["window"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"x": float64(200), "y": float64(150)}, window["position"])

	send(t, conn, types.WSMessage{Type: MsgPointerUp})
	assert.Equal(t, true, readAck(t, conn, MsgPointerUp)["success"])

	send(t, conn, types.WSMessage{Type: MsgPointerMove, X: 500, Y: 500})
	assert.Equal(t, false, readAck(t, conn, MsgPointerMove)["success"])

	w, ok := func() (types.Window, bool) {
		windows, _ := d.Windows()
		return windows.Get("terminal")
	}()
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 200, Y: 150}, w.Position)
}

func TestWindowCommands(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)
	require.True(t, d.CompleteBoot())

	send(t, conn, types.WSMessage{Type: MsgTaskbarClick, AppID: "notepad"})
	reply := readAck(t, conn, MsgTaskbarClick)
	assert.Equal(t, string(shell.ClickOpened), reply["action"])

	send(t, conn, types.WSMessage{Type: MsgMinimize, WindowID: "notepad"})
	assert.Equal(t, true, readAck(t, conn, MsgMinimize)["success"])

	send(t, conn, types.WSMessage{Type: MsgMaximize, WindowID: "notepad"})
	assert.Equal(t, true, readAck(t, conn, MsgMaximize)["success"])

	send(t, conn, types.WSMessage{Type: MsgLeafOpenApp, WindowID: "notepad", AppID: "calculator"})
	reply = readAck(t, conn, MsgLeafOpenApp)
	assert.Equal(t, "calculator", reply["window"].(map[string]interface{})["id"])

	send(t, conn, types.WSMessage{Type: MsgFocus, WindowID: "notepad"})
	assert.Equal(t, true, readAck(t, conn, MsgFocus)["success"])

	send(t, conn, types.WSMessage{Type: MsgLeafClose, WindowID: "calculator"})
	assert.Equal(t, true, readAck(t, conn, MsgLeafClose)["success"])

	send(t, conn, types.WSMessage{Type: MsgClose, WindowID: "notepad"})
	assert.Equal(t, true, readAck(t, conn, MsgClose)["success"])

	send(t, conn, types.WSMessage{Type: MsgClose, WindowID: "notepad"})
	assert.Equal(t, false, readAck(t, conn, MsgClose)["success"])

	snap, err := d.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Windows)
	assert.Nil(t, snap.ActiveID)
}

func TestExternalOpenStream(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)
	require.True(t, d.CompleteBoot())

	send(t, conn, types.WSMessage{Type: MsgOpen, AppID: "telegram"})
	external := readType(t, conn, "external_open")
	desc := external["external"].(map[string]interface{})
	assert.Contains(t, desc["url"], "t.me")

	// The passthrough window closes itself shortly after mounting
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame map[string]interface{}
		require.NoError(t, conn.ReadJSON(&frame))
		if frame["type"] == "snapshot" && len(windowsOf(t, frame)) == 0 {
			break
		}
	}
}

func TestPingViewportAndErrors(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)

	send(t, conn, types.WSMessage{Type: MsgPing})
	readType(t, conn, "pong")

	send(t, conn, types.WSMessage{Type: MsgViewport, Width: 390, Height: 844})
	assert.Equal(t, true, readAck(t, conn, MsgViewport)["success"])
	assert.Equal(t, types.Viewport{Width: 390, Height: 844}, d.Viewport())

	send(t, conn, types.WSMessage{Type: MsgViewport})
	assert.Equal(t, "error", readAck(t, conn, MsgViewport)["type"])

	require.True(t, d.CompleteBoot())
	send(t, conn, types.WSMessage{Type: "teleport"})
	reply := readAck(t, conn, "teleport")
	assert.Equal(t, "error", reply["type"])
	assert.Contains(t, reply["message"], "unknown message type")

	send(t, conn, types.WSMessage{Type: MsgFocus})
	assert.Equal(t, "error", readAck(t, conn, MsgFocus)["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	readType(t, conn, "error")
}

func TestDeleteSessionEndsStream(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)

	send(t, conn, types.WSMessage{Type: MsgBootComplete})
	assert.Equal(t, true, readAck(t, conn, MsgBootComplete)["success"])

	require.True(t, f.sessions.Delete(d.ID()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame map[string]interface{}
		err := conn.ReadJSON(&frame)
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
			break
		}
		assert.NotEqual(t, "ack", frame["type"], "no command may succeed after delete")
	}
}

func TestPointerBurstEndsOnLatestSnapshot(t *testing.T) {
	f := newFixture(t)
	conn, d := f.connect(t)
	require.True(t, d.CompleteBoot())

	send(t, conn, types.WSMessage{Type: MsgOpen, AppID: "terminal"})
	readAck(t, conn, MsgOpen)
	send(t, conn, types.WSMessage{Type: MsgPointerDownTitle, WindowID: "terminal", X: 110, Y: 60})
	require.Equal(t, true, readAck(t, conn, MsgPointerDownTitle)["success"])

	// Flood without reading
	for i := 0; i < 3000; i++ {
		send(t, conn, types.WSMessage{Type: MsgPointerMove, X: 110 + i%400, Y: 60 + i%100})
	}
	send(t, conn, types.WSMessage{Type: MsgPing})

	var (
		pong bool
		last map[string]interface{}
		want map[string]interface{}
	)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var frame map[string]interface{}
		require.NoError(t, conn.ReadJSON(&frame))

		switch frame["type"] {
		case "pong":
			// Every pointer_move has been applied once the pong is queued
			pong = true
			windows, err := d.Windows()
			require.NoError(t, err)
			w, ok := windows.Get("terminal")
			require.True(t, ok)
			want = map[string]interface{}{"x": float64(w.Position.X), "y": float64(w.Position.Y)}
		case "snapshot":
			windows := windowsOf(t, frame)
			require.Len(t, windows, 1)
			last = windows[0].(map[string]interface{})["position"].(map[string]interface{})
		}

		if pong && last != nil && assert.ObjectsAreEqual(want, last) {
			break
		}
	}

	assert.Equal(t, want, last)
	assert.Equal(t, int64(1), f.metrics.Snapshot().ActiveConnections)
}

func TestPushLatestCoalesces(t *testing.T) {
	cl := newClient("c1", nil, zap.NewNop())

	require.True(t, cl.pushLatest("snapshot", map[string]int{"seq": 1}))
	require.True(t, cl.push(map[string]string{"type": "ack"}))
	require.True(t, cl.pushLatest("snapshot", map[string]int{"seq": 2}))

	frames := cl.take()
	require.Len(t, frames, 2)
	assert.JSONEq(t, `{"type":"ack"}`, string(frames[0].data))
	assert.JSONEq(t, `{"seq":2}`, string(frames[1].data))
	assert.Empty(t, cl.take())
}
