package session

import (
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/MineBot/bridge/internal/chat"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
)

// ErrClosed is returned by writes after the connection has gone away.
var ErrClosed = errors.New("session closed")

const writeWait = 10 * time.Second

// Outbound envelope types
const (
	TypeCommand = "command"
	TypeMessage = "message"
	TypePong    = "pong"
	TypeError   = "error"
	TypeWelcome = "welcome"
)

// Inbound envelope types
const (
	TypeHello    = "hello"
	TypeChat     = "chat"
	TypePosition = "position"
	TypePing     = "ping"
)

// inbound is every field a client may send; Type selects which apply.
type inbound struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Message    string `json:"message,omitempty"`
	X          *int   `json:"x,omitempty"`
	Y          *int   `json:"y,omitempty"`
	Z          *int   `json:"z,omitempty"`
}

func (in inbound) position() (game.Position, bool) {
	if in.X == nil || in.Y == nil || in.Z == nil {
		return game.Position{}, false
	}
	return game.Position{X: *in.X, Y: *in.Y, Z: *in.Z}, true
}

type outbound struct {
	Type      string `json:"type"`
	Command   string `json:"command,omitempty"`
	Text      string `json:"text,omitempty"`
	Severity  string `json:"severity,omitempty"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Info is a snapshot of a session for the ops API.
type Info struct {
	ID          string         `json:"id"`
	PlayerID    string         `json:"playerId,omitempty"`
	PlayerName  string         `json:"playerName,omitempty"`
	ConnectedAt time.Time      `json:"connectedAt"`
	Position    *game.Position `json:"position,omitempty"`
}

// Session is one connected game client. It is the game.Sink commands are
// replayed into and the game.Locator builds are anchored on.
type Session struct {
	id          string
	conn        *websocket.Conn
	connectedAt time.Time

	writeMu sync.Mutex
	closed  bool // Protected by writeMu

	mu     sync.RWMutex
	player chat.Player   // Protected by mu
	pos    game.Position // Protected by mu
	hasPos bool          // Protected by mu
}

func newSession(id string, conn *websocket.Conn) *Session {
	return &Session{id: id, conn: conn, connectedAt: time.Now()}
}

// ID returns the connection identifier
func (s *Session) ID() string {
	return s.id
}

// Player returns who this session belongs to; empty until hello.
func (s *Session) Player() chat.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player
}

func (s *Session) setPlayer(p chat.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = p
}

// Position implements game.Locator
func (s *Session) Position() (game.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos, s.hasPos
}

func (s *Session) setPosition(p game.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = p
	s.hasPos = true
}

// SubmitCommand implements game.Sink
func (s *Session) SubmitCommand(command string) error {
	return s.write(outbound{Type: TypeCommand, Command: command})
}

// DisplayMessage implements game.Sink
func (s *Session) DisplayMessage(text string, severity game.Severity) error {
	return s.write(outbound{Type: TypeMessage, Text: text, Severity: severity.String()})
}

func (s *Session) sendError(msg string) error {
	return s.write(outbound{Type: TypeError, Message: msg})
}

// Info returns a snapshot of the session
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := Info{
		ID:          s.id,
		PlayerID:    s.player.ID,
		PlayerName:  s.player.Name,
		ConnectedAt: s.connectedAt,
	}
	if s.hasPos {
		pos := s.pos
		info.Position = &pos
	}
	return info
}

// write serializes one envelope. Writers come from the read loop, the
// network worker and the scheduler, so the connection is guarded.
func (s *Session) write(msg outbound) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) close() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.Close()
}
