// Package session provides desktop sessions and the boot gate.
//
// Every browser tab gets a Desktop. A Desktop starts Booting; the boot
// sequence signals completion once and the gate moves to Desktop for the
// rest of the session. The window manager and frame controller only exist
// after that transition, so every window operation on a booting session
// fails with ErrNotBooted.
//
// Components:
//   - Gate: One-shot Booting -> Desktop state
//   - Desktop: Gate, viewport, window manager, frame controller, event fan-out
//   - Manager: In-memory session store with idle reaping
//
// Events:
//   - state: the gate opened
//   - snapshot: the window collection changed
//   - external_open: an external passthrough window was mounted
//
// Sessions are never persisted; a new tab starts with an empty desktop.
//
// Example Usage:
//
//	sessions := session.NewManager(reg, session.DefaultConfig())
//	desktop := sessions.Create(types.Viewport{Width: 1280, Height: 800})
//	desktop.CompleteBoot()
//	frames, _ := desktop.Frames()
//	frames.Open(types.AppTarget("notepad"))
package session
