// Package session is the WebSocket gateway game clients connect to.
//
// Each connection becomes a Session, which is both the game.Sink the
// scheduler replays commands into and the game.Locator builds are anchored
// on. The handler wires a dispatcher and chat interceptor per session; the
// network worker and command scheduler are shared by all sessions.
//
// Client to bridge:
//
//	{"type":"hello","playerId":"...","playerName":"Steve","x":0,"y":64,"z":0}
//	{"type":"chat","message":"!ai make it day","x":0,"y":64,"z":0}
//	{"type":"position","x":1,"y":64,"z":2}
//	{"type":"ping"}
//
// Bridge to client:
//
//	{"type":"welcome","sessionId":"..."}
//	{"type":"command","command":"time set day"}
//	{"type":"message","text":"Thinking...","severity":"info"}
//	{"type":"pong"}
//	{"type":"error","message":"unknown message type"}
//
// Commands arrive in sink form: the client adds one leading slash.
package session
