// Package http provides the REST API of the desktop service.
//
// Handlers resolve a session, run one window manager, frame or shell
// operation and answer with the resulting snapshot. Domain errors map to
// 404 (unknown session or app), 409 (session still booting) and 400
// (validation); referential no-ops answer 200 with "success": false.
//
// Endpoints:
//   - Health: / and /health, /metrics/summary
//   - Registry: /registry/apps, /registry/apps/:app
//   - Sessions: /sessions, /sessions/:id, /sessions/:id/boot/complete, /sessions/:id/viewport
//   - Windows: /sessions/:id/windows[/:wid[/focus|/minimize|/maximize]], /sessions/:id/gesture
//   - Shell: /sessions/:id/shell/taskbar, /start-menu, /desktop-icons
//   - Logs: /logs
//
// Example Usage:
//
//	handlers := http.NewHandlers(appRegistry, sessions, desktopShell, metrics, logger)
//	http.RegisterRoutes(router, handlers)
package http
