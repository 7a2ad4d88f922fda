// Package window implements the desktop window manager.
//
// The Manager owns the ordered collection of open windows and the active
// window id for one desktop. Slice order is stacking order; the last window
// is topmost, so there is no separate z-index to keep in sync.
//
// Operations:
//   - OpenApp: open a registry app or a dynamic window, or restore an open one
//   - Close, ToggleMinimize, Focus, ToggleMaximize
//   - Move, Resize: the narrow geometry write path used by window frames
//   - Snapshot, Get, Stats: copy-on-read queries
//
// Operations on an unknown window id are no-ops reporting false. Geometry is
// kept valid by clamping drags into the work area and refusing resizes below
// the minimum size.
//
// Subscribers registered with Subscribe receive a fresh Snapshot after each
// state change.
package window
