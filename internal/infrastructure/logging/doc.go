// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Domain packages take a plain *zap.Logger and default to a no-op logger,
// so only cmd/server decides where logs go.
//
// Example Usage:
//
//	logger, err := logging.New(logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development))
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
