package game

import "fmt"

// Severity classifies a message shown to the player.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityProgress
	SeveritySuccess
	SeverityError
)

// String returns the wire name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityProgress:
		return "progress"
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink is the live game session commands are replayed into.
// Implementations must be safe to call from any goroutine and must not block
// on the game's own tick.
type Sink interface {
	// SubmitCommand sends one command in the sink's wire form (see command.SinkForm).
	SubmitCommand(command string) error
	// DisplayMessage shows one line to the player.
	DisplayMessage(text string, severity Severity) error
}

// Position is a block position in the world.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns p translated by the given deltas
func (p Position) Add(dx, dy, dz int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

func (p Position) String() string {
	return fmt.Sprintf("%d %d %d", p.X, p.Y, p.Z)
}

// Locator reports where the acting player currently stands.
type Locator interface {
	Position() (Position, bool)
}

// FixedLocator is a Locator pinned to one position.
type FixedLocator Position

// Position implements Locator
func (f FixedLocator) Position() (Position, bool) {
	return Position(f), true
}
