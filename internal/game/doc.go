// Package game defines the boundary to the live game session.
//
// The bridge never talks to the game directly; everything it does ends up as
// one of two calls on a Sink:
//
//	SubmitCommand("time set day")
//	DisplayMessage("Build complete!", game.SeveritySuccess)
//
// The session package provides the WebSocket-backed Sink used in production,
// and gametest provides an in-memory recorder for tests.
package game
