package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/MineBot/bridge/internal/bridge"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/payload"
)

// Defaults
const (
	DefaultPrefix    = "!ai"
	DefaultMaxLength = 500
	DefaultCooldown  = 2 * time.Second
)

// Player-facing messages
const (
	MsgUsage    = "Usage: !ai <message>  |  !ai help  |  !ai reset"
	MsgThinking = "Thinking..."
	MsgCooldown = "Please wait before sending another message."
	MsgReset    = "Conversation reset!"
)

var helpLines = []string{
	"Available actions:",
	"  Chat: !ai <question> - Ask me anything",
	"  Commands: !ai make it daytime / give me diamonds / kill all zombies",
	"  Build: !ai build a stone house / build a 5x5x5 cube",
	"  WorldEdit: !ai build a botpress logo / fill this area with stone",
	"  Reset: !ai reset - Clear conversation history",
}

// Player identifies who typed the message.
type Player struct {
	ID   string
	Name string
}

// Inference is the remote side of a query.
type Inference interface {
	Chat(ctx context.Context, req bridge.ChatRequest) (payload.Payload, error)
	Reset(ctx context.Context, playerUUID string) error
}

// Submitter queues work off the caller's goroutine.
type Submitter interface {
	Submit(job bridge.Job) error
}

// Responder receives the outcome of a chat query.
type Responder interface {
	Handle(p payload.Payload)
	HandleError(err error)
}

// Options configures an Interceptor.
type Options struct {
	Prefix    string
	MaxLength int
	// Cooldown is the minimum gap between queries; zero disables it.
	Cooldown  time.Duration
	Sink      game.Sink
	Locator   game.Locator
	Inference Inference
	Worker    Submitter
	Responder Responder
	Logger    *zap.Logger
}

// Interceptor decides which chat lines are queries and sends them on.
type Interceptor struct {
	prefix    string
	maxLength int
	limiter   *rate.Limiter

	sink      game.Sink
	locator   game.Locator
	inference Inference
	worker    Submitter
	responder Responder
	logger    *zap.Logger
}

// NewInterceptor creates an interceptor for one player's session.
func NewInterceptor(opts Options) *Interceptor {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.Cooldown > 0 {
		limit = rate.Every(opts.Cooldown)
	}

	return &Interceptor{
		prefix:    opts.Prefix,
		maxLength: opts.MaxLength,
		limiter:   rate.NewLimiter(limit, 1),
		sink:      opts.Sink,
		locator:   opts.Locator,
		inference: opts.Inference,
		worker:    opts.Worker,
		responder: opts.Responder,
		logger:    opts.Logger.Named("chat"),
	}
}

// Intercept handles one chat line. It returns false when the line is not
// addressed to the bot and should be left alone.
func (i *Interceptor) Intercept(ctx context.Context, player Player, text string) bool {
	query, ok := i.query(text)
	if !ok {
		return false
	}
	if ctx.Err() != nil {
		return true
	}

	switch {
	case query == "":
		i.display(MsgUsage, game.SeverityInfo)
	case strings.EqualFold(query, "help"):
		for _, line := range helpLines {
			i.display(line, game.SeverityInfo)
		}
	case strings.EqualFold(query, "reset"):
		i.submit(func(ctx context.Context) { i.reset(ctx, player) })
	case len([]rune(query)) > i.maxLength:
		i.display(fmt.Sprintf("Message too long (max %d chars).", i.maxLength), game.SeverityError)
	case !i.limiter.Allow():
		i.display(MsgCooldown, game.SeverityError)
	default:
		i.display(MsgThinking, game.SeverityInfo)
		req := bridge.ChatRequest{PlayerName: player.Name, PlayerUUID: player.ID, Message: query}
		if i.locator != nil {
			if pos, ok := i.locator.Position(); ok {
				req = req.At(pos)
			}
		}
		i.logger.Info("Query received", zap.String("player", player.Name), zap.Int("length", len(query)))
		i.submit(func(ctx context.Context) { i.ask(ctx, req) })
	}
	return true
}

// query strips the prefix. The prefix must stand alone or be followed by whitespace.
func (i *Interceptor) query(text string) (string, bool) {
	if !strings.HasPrefix(text, i.prefix) {
		return "", false
	}
	rest := text[len(i.prefix):]
	if rest != "" && !strings.ContainsRune(" \t", rune(rest[0])) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (i *Interceptor) ask(ctx context.Context, req bridge.ChatRequest) {
	p, err := i.inference.Chat(ctx, req)
	if err != nil {
		i.responder.HandleError(err)
		return
	}
	i.responder.Handle(p)
}

func (i *Interceptor) reset(ctx context.Context, player Player) {
	if err := i.inference.Reset(ctx, player.ID); err != nil {
		i.display("Failed to reset: "+err.Error(), game.SeverityError)
		return
	}
	i.logger.Info("Conversation reset", zap.String("player", player.Name))
	i.display(MsgReset, game.SeveritySuccess)
}

func (i *Interceptor) submit(job bridge.Job) {
	if err := i.worker.Submit(job); err != nil {
		i.logger.Warn("Failed to queue request", zap.Error(err))
		i.responder.HandleError(err)
	}
}

func (i *Interceptor) display(text string, severity game.Severity) {
	if err := i.sink.DisplayMessage(text, severity); err != nil {
		i.logger.Debug("Failed to display message", zap.Error(err))
	}
}
