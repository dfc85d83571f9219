package payload

// Kind discriminates the payload variants. Values are the wire "type" strings.
type Kind string

const (
	KindChat    Kind = "chat"
	KindCommand Kind = "command"
	KindBuild   Kind = "build"
	KindMacro   Kind = "worldedit"
	KindError   Kind = "error"
)

// Bounds enforced at decode time.
const (
	MaxDimension     = 64
	MaxMacroCommands = 500
)

// Payload is one decoded response from the inference channel.
// The variant set is closed: Chat, Command, Build, MacroSequence and Error.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Chat is a reply shown verbatim.
type Chat struct {
	Text string
}

// Command is a single game command.
type Command struct {
	Command string
}

// Build asks for a procedural structure in front of the player.
type Build struct {
	Template string
	Width    int
	Height   int
	Depth    int
	Material string
}

// MacroSequence is a pre-built list of commands replayed in order.
type MacroSequence struct {
	Description string
	Commands    []string
}

// Error is a failure reported by the inference side, shown verbatim.
type Error struct {
	Text string
}

func (Chat) Kind() Kind          { return KindChat }
func (Command) Kind() Kind       { return KindCommand }
func (Build) Kind() Kind         { return KindBuild }
func (MacroSequence) Kind() Kind { return KindMacro }
func (Error) Kind() Kind         { return KindError }

func (Chat) isPayload()          {}
func (Command) isPayload()       {}
func (Build) isPayload()         {}
func (MacroSequence) isPayload() {}
func (Error) isPayload()         {}
