package session

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/MineBot/bridge/internal/chat"
	"github.com/GriffinCanCode/MineBot/bridge/internal/command"
	"github.com/GriffinCanCode/MineBot/bridge/internal/dispatch"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/MineBot/bridge/internal/structure"
)

const (
	// readWait is how long a silent client is kept; clients ping well inside it.
	readWait       = 90 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Game clients send no Origin
	},
}

// Options configures the gateway and the per-session pipeline it builds.
type Options struct {
	Hub       *Hub
	Scheduler dispatch.Scheduler
	Validator *command.Validator
	Generator *structure.Generator
	Inference chat.Inference
	Worker    chat.Submitter

	CommandInterval time.Duration
	BuildInterval   time.Duration
	ProgressEvery   int
	Strict          bool

	ChatPrefix    string
	ChatMaxLength int
	ChatCooldown  time.Duration

	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

// Handler accepts game client connections
type Handler struct {
	opts   Options
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(opts Options) *Handler {
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Metrics)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{opts: opts, logger: opts.Logger.Named("session")}
}

// Hub returns the live session registry
func (h *Handler) Hub() *Hub {
	return h.opts.Hub
}

// HandleConnection upgrades the request and serves the session until the client leaves.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	sess := newSession(uuid.NewString(), conn)
	h.opts.Hub.add(sess)
	defer func() {
		h.opts.Hub.remove(sess)
		sess.close()
		h.logger.Info("Session disconnected",
			zap.String("session_id", sess.ID()),
			zap.String("player", sess.Player().Name),
		)
	}()

	h.logger.Info("Session connected",
		zap.String("session_id", sess.ID()),
		zap.String("remote", c.ClientIP()),
	)

	interceptor := h.pipeline(sess)
	h.serve(c.Request.Context(), sess, interceptor)
}

// pipeline wires a dispatcher and chat interceptor to one session.
func (h *Handler) pipeline(sess *Session) *chat.Interceptor {
	logger := h.opts.Logger.With(zap.String("session_id", sess.ID()))

	dispatcher := dispatch.New(dispatch.Options{
		Validator:       h.opts.Validator,
		Scheduler:       h.opts.Scheduler,
		Sink:            sess,
		Locator:         sess,
		Generator:       h.opts.Generator,
		CommandInterval: h.opts.CommandInterval,
		BuildInterval:   h.opts.BuildInterval,
		ProgressEvery:   h.opts.ProgressEvery,
		Strict:          h.opts.Strict,
		Logger:          logger,
		Metrics:         h.opts.Metrics,
	})

	return chat.NewInterceptor(chat.Options{
		Prefix:    h.opts.ChatPrefix,
		MaxLength: h.opts.ChatMaxLength,
		Cooldown:  h.opts.ChatCooldown,
		Sink:      sess,
		Locator:   sess,
		Inference: h.opts.Inference,
		Worker:    h.opts.Worker,
		Responder: dispatcher,
		Logger:    logger,
	})
}

func (h *Handler) serve(ctx context.Context, sess *Session, interceptor *chat.Interceptor) {
	conn := sess.conn
	conn.SetReadLimit(maxMessageSize)

	_ = sess.write(outbound{Type: TypeWelcome, SessionID: sess.ID()})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.String("session_id", sess.ID()), zap.Error(err))
			}
			return
		}

		var msg inbound
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = sess.sendError("invalid message")
			continue
		}

		switch msg.Type {
		case TypeHello:
			if msg.PlayerID == "" || msg.PlayerName == "" {
				_ = sess.sendError("hello requires playerId and playerName")
				continue
			}
			sess.setPlayer(chat.Player{ID: msg.PlayerID, Name: msg.PlayerName})
			if pos, ok := msg.position(); ok {
				sess.setPosition(pos)
			}
			h.logger.Info("Player identified",
				zap.String("session_id", sess.ID()),
				zap.String("player", msg.PlayerName),
			)
		case TypeChat:
			player := sess.Player()
			if player.ID == "" {
				_ = sess.sendError("hello required before chat")
				continue
			}
			if pos, ok := msg.position(); ok {
				sess.setPosition(pos)
			}
			interceptor.Intercept(ctx, player, msg.Message)
		case TypePosition:
			pos, ok := msg.position()
			if !ok {
				_ = sess.sendError("position requires x, y and z")
				continue
			}
			sess.setPosition(pos)
		case TypePing:
			_ = sess.write(outbound{Type: TypePong})
		default:
			_ = sess.sendError("unknown message type")
		}
	}
}
