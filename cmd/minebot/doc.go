// Package main is the entry point for the MineBot bridge.
//
// The bridge sits between game clients and the inference service:
//
//	Game client ⇄ /session (WebSocket) ⇄ Bridge → Inference service (HTTP)
//
// Clients connect over WebSocket, forward player chat, and receive paced
// game commands and status messages back. The bridge validates every
// command against a whitelist, expands build requests into fill commands
// and schedules them at fixed intervals.
//
// Configuration, lowest precedence first:
//   - Built-in defaults
//   - Config file named by -config or MINEBOT_CONFIG
//   - Environment variables
//   - CLI flags
//
// Usage:
//
//	./minebot -port 8080 -bridge http://localhost:3000
//
//	# Development mode (console logs, debug level)
//	./minebot -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
