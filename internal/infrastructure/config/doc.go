// Package config provides 12-factor configuration management for the
// desktop service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, CORS, compression)
//   - Desktop: Taskbar height, mobile breakpoint, full-screen and pinned apps
//   - Registry: Extra catalog files
//   - Session: Idle reaping and external window close delay
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS, COMPRESSION_ENABLED
//   - TASKBAR_HEIGHT, MOBILE_BREAKPOINT, FULLSCREEN_APPS, PINNED_APPS, HIDDEN_APPS
//   - MIN_WINDOW_WIDTH, MIN_WINDOW_HEIGHT
//   - REGISTRY_GLOB
//   - SESSION_IDLE_TTL, SESSION_REAP_INTERVAL, EXTERNAL_CLOSE_DELAY
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
