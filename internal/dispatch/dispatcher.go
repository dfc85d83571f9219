package dispatch

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/MineBot/bridge/internal/bridge"
	"github.com/GriffinCanCode/MineBot/bridge/internal/command"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/MineBot/bridge/internal/payload"
	"github.com/GriffinCanCode/MineBot/bridge/internal/scheduler"
	"github.com/GriffinCanCode/MineBot/bridge/internal/structure"
)

// Player-facing messages
const (
	MsgUnreachable     = "Could not reach AI server. Is bridge-server running?"
	MsgBuildComplete   = "Build complete!"
	MsgPositionUnknown = "Cannot build: player position unknown"
)

// DefaultProgressStep is the macro progress cadence.
const DefaultProgressStep = 10

// Scheduler accepts batches for timed replay.
type Scheduler interface {
	Dispatch(batch scheduler.Batch) (string, error)
}

// Options configures a Dispatcher.
type Options struct {
	Validator       *command.Validator
	Scheduler       Scheduler
	Sink            game.Sink
	Locator         game.Locator
	Generator       *structure.Generator
	CommandInterval time.Duration
	BuildInterval   time.Duration
	ProgressEvery   int
	// Strict validates macro sequences in strict mode instead of lenient.
	Strict  bool
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

// Dispatcher routes decoded inference payloads for one player session.
type Dispatcher struct {
	validator *command.Validator
	scheduler Scheduler
	sink      game.Sink
	locator   game.Locator
	generator *structure.Generator

	commandInterval time.Duration
	buildInterval   time.Duration
	progressEvery   int
	strict          bool

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates a dispatcher. Sink and Scheduler are required.
func New(opts Options) *Dispatcher {
	if opts.Validator == nil {
		opts.Validator = command.NewValidator(nil)
	}
	if opts.Generator == nil {
		opts.Generator = structure.NewGenerator()
	}
	if opts.CommandInterval <= 0 {
		opts.CommandInterval = 150 * time.Millisecond
	}
	if opts.BuildInterval <= 0 {
		opts.BuildInterval = 100 * time.Millisecond
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressStep
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Dispatcher{
		validator:       opts.Validator,
		scheduler:       opts.Scheduler,
		sink:            opts.Sink,
		locator:         opts.Locator,
		generator:       opts.Generator,
		commandInterval: opts.CommandInterval,
		buildInterval:   opts.BuildInterval,
		progressEvery:   opts.ProgressEvery,
		strict:          opts.Strict,
		logger:          opts.Logger.Named("dispatch"),
		metrics:         opts.Metrics,
	}
}

// HandleRaw decodes one response body and handles it.
func (d *Dispatcher) HandleRaw(data []byte) {
	p, err := payload.Decode(data)
	if err != nil {
		d.HandleError(err)
		return
	}
	d.Handle(p)
}

// Handle routes one decoded payload. Every outcome reaches the player as a
// message; nothing here affects batches already scheduled.
func (d *Dispatcher) Handle(p payload.Payload) {
	d.metrics.RecordPayload(string(p.Kind()))
	d.logger.Debug("Handling payload", zap.String("kind", string(p.Kind())))

	switch p := p.(type) {
	case payload.Chat:
		d.display(p.Text, game.SeverityInfo)
	case payload.Error:
		d.display(p.Text, game.SeverityError)
	case payload.Command:
		d.runCommand(p.Command)
	case payload.Build:
		d.build(p)
	case payload.MacroSequence:
		d.runSequence(p)
	default:
		d.display(fmt.Sprintf("Unknown response type: %s", p.Kind()), game.SeverityError)
	}
}

// HandleError reports a failed exchange with the inference service.
func (d *Dispatcher) HandleError(err error) {
	if err == nil {
		return
	}
	d.display(Describe(err), game.SeverityError)
}

// Describe turns a pipeline error into the line shown to the player.
func Describe(err error) string {
	var (
		decodeErr *payload.DecodeError
		statusErr *bridge.StatusError
	)
	switch {
	case errors.As(err, &decodeErr):
		if errors.Is(decodeErr, payload.ErrUnknownKind) {
			return fmt.Sprintf("Unknown response type: %s", decodeErr.Kind)
		}
		if decodeErr.Kind == "" {
			return fmt.Sprintf("Malformed response: %s", decodeErr.Detail)
		}
		return fmt.Sprintf("Malformed %s response: %s", decodeErr.Kind, decodeErr.Detail)
	case errors.Is(err, bridge.ErrUnreachable):
		return MsgUnreachable
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server returned status %d", statusErr.Code)
	default:
		return "Error: " + err.Error()
	}
}

func (d *Dispatcher) runCommand(raw string) {
	v := d.validator.Validate(raw)
	if !v.Valid {
		d.reject(v, 1)
		return
	}

	wire := command.SinkForm(v.Normalized)
	d.display("Executing: /"+wire, game.SeverityInfo)
	if err := d.sink.SubmitCommand(wire); err != nil {
		d.logger.Warn("Failed to submit command", zap.String("command", v.Normalized), zap.Error(err))
		return
	}
	d.metrics.RecordCommandSubmitted(command.Namespace(v.Normalized))
}

func (d *Dispatcher) build(b payload.Build) {
	if !structure.KnownTemplate(b.Template) {
		d.display(fmt.Sprintf("Unknown structure type: %s", b.Template), game.SeverityError)
		return
	}

	var (
		pos game.Position
		ok  bool
	)
	if d.locator != nil {
		pos, ok = d.locator.Position()
	}
	if !ok {
		d.display(MsgPositionUnknown, game.SeverityError)
		return
	}

	cmds := d.generator.Build(structure.Request{
		Template: b.Template,
		Width:    b.Width,
		Height:   b.Height,
		Depth:    b.Depth,
		Material: b.Material,
	}, pos)
	if len(cmds) == 0 {
		d.display(fmt.Sprintf("Unknown structure type: %s", b.Template), game.SeverityError)
		return
	}

	result := d.validator.ValidateSequence(cmds, true)
	if result.ShouldAbort {
		first, _ := result.FirstRejected()
		d.reject(first, len(result.Invalid))
		return
	}

	d.schedule(scheduler.Batch{
		Description:  b.Template,
		Announcement: fmt.Sprintf("Building %s (%dx%dx%d)...", b.Template, b.Width, b.Height, b.Depth),
		Commands:     result.NormalizedCommands(),
		Interval:     d.buildInterval,
		Completion:   MsgBuildComplete,
	})
}

func (d *Dispatcher) runSequence(m payload.MacroSequence) {
	result := d.validator.ValidateSequence(m.Commands, d.strict)

	if first, ok := result.FirstRejected(); ok {
		d.reject(first, len(result.Invalid))
	}
	if result.ShouldAbort {
		d.logger.Info("Sequence aborted",
			zap.String("description", m.Description),
			zap.Bool("strict", result.Strict),
			zap.Int("rejected", len(result.Invalid)),
		)
		return
	}

	d.schedule(scheduler.Batch{
		Description:   m.Description,
		Commands:      result.NormalizedCommands(),
		Interval:      d.commandInterval,
		ProgressEvery: d.progressEvery,
	})
}

func (d *Dispatcher) schedule(batch scheduler.Batch) {
	if d.scheduler == nil {
		d.HandleError(scheduler.ErrStopped)
		return
	}
	batch.Sink = d.sink
	if _, err := d.scheduler.Dispatch(batch); err != nil {
		d.logger.Error("Failed to schedule batch", zap.String("description", batch.Description), zap.Error(err))
		d.HandleError(err)
	}
}

// reject shows the first rejection; count is how many commands were refused.
func (d *Dispatcher) reject(v command.Validated, count int) {
	d.metrics.RecordCommandsRejected(count)
	d.logger.Info("Command rejected", zap.String("base_token", v.BaseToken), zap.Int("rejected", count))
	d.display(v.Err, game.SeverityError)
}

func (d *Dispatcher) display(text string, severity game.Severity) {
	if err := d.sink.DisplayMessage(text, severity); err != nil {
		d.logger.Debug("Failed to display message", zap.Error(err))
	}
}
