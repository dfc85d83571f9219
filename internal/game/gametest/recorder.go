// Package gametest provides an in-memory game.Sink for tests.
package gametest

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
)

// Event is one call observed by the Recorder, in arrival order.
type Event struct {
	Command  string
	Message  string
	Severity game.Severity
}

// IsCommand reports whether the event was a submitted command
func (e Event) IsCommand() bool {
	return e.Command != ""
}

// Recorder records every sink call. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	failing bool
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWrites makes subsequent calls return an error (they are still recorded)
func (r *Recorder) FailWrites() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing = true
}

// SubmitCommand implements game.Sink
func (r *Recorder) SubmitCommand(command string) error {
	return r.record(Event{Command: command})
}

// DisplayMessage implements game.Sink
func (r *Recorder) DisplayMessage(text string, severity game.Severity) error {
	return r.record(Event{Message: text, Severity: severity})
}

func (r *Recorder) record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.failing {
		return errors.New("sink closed")
	}
	return nil
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Commands returns the submitted commands in order
func (r *Recorder) Commands() []string {
	var out []string
	for _, e := range r.Events() {
		if e.IsCommand() {
			out = append(out, e.Command)
		}
	}
	return out
}

// Messages returns the displayed messages with the given severity, in order
func (r *Recorder) Messages(severity game.Severity) []string {
	var out []string
	for _, e := range r.Events() {
		if !e.IsCommand() && e.Severity == severity {
			out = append(out, e.Message)
		}
	}
	return out
}

// AllMessages returns every displayed message in order
func (r *Recorder) AllMessages() []string {
	var out []string
	for _, e := range r.Events() {
		if !e.IsCommand() {
			out = append(out, e.Message)
		}
	}
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
