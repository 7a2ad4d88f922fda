// Package ws provides the live WebSocket stream of a desktop session.
//
// One connection serves one session. The server pushes every desktop event
// and applies browser commands through the same window manager, frame and
// shell operations the REST API uses.
//
// Message Types (Client → Server):
//   - boot_complete, viewport: boot gate and viewport signals
//   - open, close, focus, minimize, maximize: window operations
//   - pointer_down_title, pointer_down_resize, pointer_move, pointer_up: gestures
//   - taskbar_click: taskbar button semantics
//   - leaf_open_app, leaf_close: requests from the app hosted in a window
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - system: welcome with the client id and session info
//   - state: the session left the Booting state
//   - snapshot: the window list changed
//   - external_open: the browser should open a URL in a new tab
//   - ack: result of a command
//   - pong, error
//
// A client that reads slowly still ends on the newest snapshot: pending
// snapshots, and pending pointer_move acks, are replaced by newer ones.
// Snapshots carry a seq that only grows. The stream closes with 1001 when
// the session is deleted or reaped, and with 1013 when the client falls too
// far behind on ordered frames.
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, desktopShell, logger).WithMetrics(metrics)
//	router.GET("/sessions/:id/stream", handler.HandleConnection)
package ws
