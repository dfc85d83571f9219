// Package config provides 12-factor configuration for the MineBot bridge.
//
// Values start from Default, are overlaid by an optional file named in
// MINEBOT_CONFIG (.yaml, .yml, .json or .toml) and finally by environment
// variables. Unset variables leave the earlier layer untouched.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Bridge: inference service URL, timeouts and outbound request rate
//   - Dispatch: command pacing, progress cadence, strict sequences, whitelist file
//   - Chat: trigger prefix, max query length, per-player cooldown
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting for the ops API
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config
