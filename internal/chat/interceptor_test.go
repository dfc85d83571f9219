package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/MineBot/bridge/internal/bridge"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game/gametest"
	"github.com/GriffinCanCode/MineBot/bridge/internal/payload"
)

// MockInference is a mock implementation of Inference
type MockInference struct {
	mock.Mock
}

func (m *MockInference) Chat(ctx context.Context, req bridge.ChatRequest) (payload.Payload, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(payload.Payload)
	return p, args.Error(1)
}

func (m *MockInference) Reset(ctx context.Context, playerUUID string) error {
	args := m.Called(ctx, playerUUID)
	return args.Error(0)
}

// MockResponder is a mock implementation of Responder
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Handle(p payload.Payload) {
	m.Called(p)
}

func (m *MockResponder) HandleError(err error) {
	m.Called(err)
}

// inlineWorker runs jobs on the caller's goroutine.
type inlineWorker struct {
	err error
}

func (w inlineWorker) Submit(job bridge.Job) error {
	if w.err != nil {
		return w.err
	}
	job(context.Background())
	return nil
}

var steve = Player{ID: "uuid-steve", Name: "Steve"}

type fixture struct {
	interceptor *Interceptor
	inference   *MockInference
	responder   *MockResponder
	sink        *gametest.Recorder
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		inference: new(MockInference),
		responder: new(MockResponder),
		sink:      gametest.NewRecorder(),
	}
	opts.Sink = f.sink
	opts.Inference = f.inference
	opts.Responder = f.responder
	if opts.Worker == nil {
		opts.Worker = inlineWorker{}
	}
	f.interceptor = NewInterceptor(opts)
	return f
}

func TestInterceptIgnoresOrdinaryChat(t *testing.T) {
	f := newFixture(t, Options{})

	for _, text := range []string{"hello", "ai please", " !ai leading space", "!aihello"} {
		assert.False(t, f.interceptor.Intercept(context.Background(), steve, text), text)
	}
	assert.Zero(t, f.sink.Len())
	f.inference.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestInterceptUsage(t *testing.T) {
	for _, text := range []string{"!ai", "!ai   "} {
		f := newFixture(t, Options{})
		assert.True(t, f.interceptor.Intercept(context.Background(), steve, text))
		assert.Equal(t, []string{MsgUsage}, f.sink.AllMessages())
	}
}

func TestInterceptHelp(t *testing.T) {
	f := newFixture(t, Options{})

	assert.True(t, f.interceptor.Intercept(context.Background(), steve, "!ai HELP"))

	msgs := f.sink.AllMessages()
	require.Len(t, msgs, len(helpLines))
	assert.Equal(t, "Available actions:", msgs[0])
	assert.Contains(t, msgs[len(msgs)-1], "!ai reset")
}

func TestInterceptReset(t *testing.T) {
	f := newFixture(t, Options{})
	f.inference.On("Reset", mock.Anything, "uuid-steve").Return(nil).Once()

	assert.True(t, f.interceptor.Intercept(context.Background(), steve, "!ai reset"))

	f.inference.AssertExpectations(t)
	assert.Equal(t, []string{MsgReset}, f.sink.Messages(game.SeveritySuccess))
}

func TestInterceptResetFailure(t *testing.T) {
	f := newFixture(t, Options{})
	f.inference.On("Reset", mock.Anything, "uuid-steve").Return(&bridge.StatusError{Endpoint: "reset", Code: 500})

	f.interceptor.Intercept(context.Background(), steve, "!ai Reset")

	assert.Equal(t, []string{"Failed to reset: reset returned status 500"}, f.sink.Messages(game.SeverityError))
}

func TestInterceptTooLong(t *testing.T) {
	f := newFixture(t, Options{MaxLength: 10})

	assert.True(t, f.interceptor.Intercept(context.Background(), steve, "!ai "+strings.Repeat("a", 11)))

	assert.Equal(t, []string{"Message too long (max 10 chars)."}, f.sink.Messages(game.SeverityError))
	f.inference.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestInterceptSendsQuery(t *testing.T) {
	f := newFixture(t, Options{Locator: game.FixedLocator{X: 5, Y: 70, Z: -2}})

	reply := payload.Chat{Text: "It is noon."}
	f.inference.On("Chat", mock.Anything, mock.MatchedBy(func(req bridge.ChatRequest) bool {
		return req.PlayerName == "Steve" &&
			req.PlayerUUID == "uuid-steve" &&
			req.Message == "what time is it?" &&
			req.PlayerX != nil && *req.PlayerX == 5 &&
			req.PlayerZ != nil && *req.PlayerZ == -2
	})).Return(reply, nil).Once()
	f.responder.On("Handle", reply).Once()

	assert.True(t, f.interceptor.Intercept(context.Background(), steve, "!ai   what time is it?  "))

	f.inference.AssertExpectations(t)
	f.responder.AssertExpectations(t)
	assert.Equal(t, []string{MsgThinking}, f.sink.AllMessages())
}

func TestInterceptForwardsTransportError(t *testing.T) {
	f := newFixture(t, Options{})

	f.inference.On("Chat", mock.Anything, mock.Anything).Return(nil, bridge.ErrUnreachable)
	f.responder.On("HandleError", bridge.ErrUnreachable).Once()

	f.interceptor.Intercept(context.Background(), steve, "!ai hi")

	f.responder.AssertExpectations(t)
}

func TestInterceptCooldown(t *testing.T) {
	f := newFixture(t, Options{Cooldown: time.Hour})

	f.inference.On("Chat", mock.Anything, mock.Anything).Return(payload.Chat{Text: "ok"}, nil)
	f.responder.On("Handle", mock.Anything)

	f.interceptor.Intercept(context.Background(), steve, "!ai first")
	f.interceptor.Intercept(context.Background(), steve, "!ai second")

	f.inference.AssertNumberOfCalls(t, "Chat", 1)
	assert.Equal(t, []string{MsgCooldown}, f.sink.Messages(game.SeverityError))

	// help and reset are not rate limited
	f.inference.On("Reset", mock.Anything, mock.Anything).Return(nil)
	f.interceptor.Intercept(context.Background(), steve, "!ai reset")
	f.inference.AssertNumberOfCalls(t, "Reset", 1)
}

func TestInterceptCooldownExpires(t *testing.T) {
	f := newFixture(t, Options{Cooldown: 20 * time.Millisecond})

	f.inference.On("Chat", mock.Anything, mock.Anything).Return(payload.Chat{Text: "ok"}, nil)
	f.responder.On("Handle", mock.Anything)

	f.interceptor.Intercept(context.Background(), steve, "!ai one")
	time.Sleep(30 * time.Millisecond)
	f.interceptor.Intercept(context.Background(), steve, "!ai two")

	f.inference.AssertNumberOfCalls(t, "Chat", 2)
	assert.Empty(t, f.sink.Messages(game.SeverityError))
}

func TestInterceptQueueFull(t *testing.T) {
	f := newFixture(t, Options{Worker: inlineWorker{err: bridge.ErrQueueFull}})
	f.responder.On("HandleError", bridge.ErrQueueFull).Once()

	f.interceptor.Intercept(context.Background(), steve, "!ai hi")

	f.responder.AssertExpectations(t)
}

func TestInterceptCustomPrefix(t *testing.T) {
	f := newFixture(t, Options{Prefix: "!bot"})

	assert.False(t, f.interceptor.Intercept(context.Background(), steve, "!ai help"))
	assert.True(t, f.interceptor.Intercept(context.Background(), steve, "!bot"))
	assert.Equal(t, []string{MsgUsage}, f.sink.AllMessages())
}

func TestInterceptCancelledContext(t *testing.T) {
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, f.interceptor.Intercept(ctx, steve, "!ai hi"))
	assert.Zero(t, f.sink.Len())
}
