// Package main is the entry point for the DeskOS desktop service.
//
// The service hosts browser desktop sessions: each tab boots, then drives a
// window manager, taskbar and start menu over REST and a WebSocket stream.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -registry "catalog/**/*.yaml"
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
