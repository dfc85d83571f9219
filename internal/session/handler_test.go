package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/MineBot/bridge/internal/bridge"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/payload"
	"github.com/GriffinCanCode/MineBot/bridge/internal/scheduler"
)

// stubInference answers every query with a fixed payload.
type stubInference struct {
	mu    sync.Mutex
	reply payload.Payload
	err   error
	reqs  []bridge.ChatRequest
}

func (s *stubInference) Chat(ctx context.Context, req bridge.ChatRequest) (payload.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return s.reply, s.err
}

func (s *stubInference) Reset(ctx context.Context, playerUUID string) error {
	return nil
}

func (s *stubInference) requests() []bridge.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bridge.ChatRequest(nil), s.reqs...)
}

type testServer struct {
	url     string
	handler *Handler
}

func newTestServer(t *testing.T, inference *stubInference) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sched := scheduler.New(nil)
	worker := bridge.NewWorker(0, nil)
	t.Cleanup(func() {
		worker.Close()
		sched.Stop()
	})

	handler := NewHandler(Options{
		Scheduler:       sched,
		Inference:       inference,
		Worker:          worker,
		CommandInterval: time.Millisecond,
		BuildInterval:   time.Millisecond,
	})

	router := gin.New()
	router.GET("/session", handler.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		url:     "ws" + strings.TrimPrefix(srv.URL, "http") + "/session",
		handler: handler,
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	welcome := read(t, conn)
	require.Equal(t, TypeWelcome, welcome.Type)
	require.NotEmpty(t, welcome.SessionID)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg outbound
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func hello(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	send(t, conn, map[string]interface{}{
		"type": "hello", "playerId": "uuid-steve", "playerName": "Steve",
		"x": 10, "y": 64, "z": 10,
	})
}

func TestPingPong(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	conn := dial(t, srv.url)

	send(t, conn, map[string]interface{}{"type": "ping"})
	assert.Equal(t, TypePong, read(t, conn).Type)
}

func TestUnknownAndInvalidMessages(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	conn := dial(t, srv.url)

	send(t, conn, map[string]interface{}{"type": "dance"})
	msg := read(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, "unknown message type", msg.Message)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "invalid message", read(t, conn).Message)
}

func TestChatRequiresHello(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	conn := dial(t, srv.url)

	send(t, conn, map[string]interface{}{"type": "chat", "message": "!ai help"})
	assert.Equal(t, "hello required before chat", read(t, conn).Message)
}

func TestChatHelp(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	conn := dial(t, srv.url)
	hello(t, conn)

	send(t, conn, map[string]interface{}{"type": "chat", "message": "!ai help"})

	msg := read(t, conn)
	assert.Equal(t, TypeMessage, msg.Type)
	assert.Equal(t, "Available actions:", msg.Text)
	assert.Equal(t, "info", msg.Severity)
}

func TestChatCommandRoundTrip(t *testing.T) {
	inference := &stubInference{reply: payload.Command{Command: "time set day"}}
	srv := newTestServer(t, inference)
	conn := dial(t, srv.url)
	hello(t, conn)

	send(t, conn, map[string]interface{}{"type": "chat", "message": "!ai make it day"})

	assert.Equal(t, outbound{Type: TypeMessage, Text: "Thinking...", Severity: "info"}, read(t, conn))
	assert.Equal(t, outbound{Type: TypeMessage, Text: "Executing: /time set day", Severity: "info"}, read(t, conn))
	assert.Equal(t, outbound{Type: TypeCommand, Command: "time set day"}, read(t, conn))

	reqs := inference.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Steve", reqs[0].PlayerName)
	assert.Equal(t, "uuid-steve", reqs[0].PlayerUUID)
	assert.Equal(t, "make it day", reqs[0].Message)
	require.NotNil(t, reqs[0].PlayerY)
	assert.Equal(t, 64, *reqs[0].PlayerY)
}

func TestChatBuildUsesReportedPosition(t *testing.T) {
	inference := &stubInference{reply: payload.Build{Template: "cube", Width: 2, Height: 2, Depth: 2, Material: "stone"}}
	srv := newTestServer(t, inference)
	conn := dial(t, srv.url)
	hello(t, conn)

	send(t, conn, map[string]interface{}{"type": "position", "x": 0, "y": 80, "z": 0})
	send(t, conn, map[string]interface{}{"type": "chat", "message": "!ai build a cube"})

	assert.Equal(t, "Thinking...", read(t, conn).Text)
	assert.Equal(t, "Building cube (2x2x2)...", read(t, conn).Text)
	assert.Equal(t, outbound{Type: TypeCommand, Command: "fill 2 80 2 3 81 3 minecraft:stone"}, read(t, conn))
	assert.Equal(t, outbound{Type: TypeMessage, Text: "Build complete!", Severity: "success"}, read(t, conn))
}

func TestTransportErrorMessage(t *testing.T) {
	inference := &stubInference{err: bridge.ErrUnreachable}
	srv := newTestServer(t, inference)
	conn := dial(t, srv.url)
	hello(t, conn)

	send(t, conn, map[string]interface{}{"type": "chat", "message": "!ai hi"})

	assert.Equal(t, "Thinking...", read(t, conn).Text)
	msg := read(t, conn)
	assert.Equal(t, "Could not reach AI server. Is bridge-server running?", msg.Text)
	assert.Equal(t, "error", msg.Severity)
}

func TestHubTracksSessions(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	hub := srv.handler.Hub()

	conn := dial(t, srv.url)
	hello(t, conn)

	require.Eventually(t, func() bool {
		list := hub.List()
		return len(list) == 1 && list[0].PlayerName == "Steve"
	}, time.Second, 5*time.Millisecond)

	info := hub.List()[0]
	assert.Equal(t, "uuid-steve", info.PlayerID)
	require.NotNil(t, info.Position)
	assert.Equal(t, game.Position{X: 10, Y: 64, Z: 10}, *info.Position)

	s, ok := hub.Get(info.ID)
	require.True(t, ok)
	pos, ok := s.Position()
	assert.True(t, ok)
	assert.Equal(t, 64, pos.Y)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestWritesAfterCloseFail(t *testing.T) {
	srv := newTestServer(t, &stubInference{})
	hub := srv.handler.Hub()
	conn := dial(t, srv.url)

	var s *Session
	require.Eventually(t, func() bool {
		list := hub.List()
		if len(list) != 1 {
			return false
		}
		s, _ = hub.Get(list[0].ID)
		return s != nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, s.SubmitCommand("time set day"), ErrClosed)
	assert.ErrorIs(t, s.DisplayMessage("hi", game.SeverityInfo), ErrClosed)
}
