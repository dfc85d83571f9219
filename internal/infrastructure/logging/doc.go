// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output, debug level
//
// Components take a *zap.Logger and call OrNop so a nil logger is safe.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Bridge starting", zap.String("port", "8080"))
//	logger.Error("Inference request failed", zap.Error(err))
package logging
