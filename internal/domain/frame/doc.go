// Package frame implements the window frame gesture protocol.
//
// A Controller turns pointer events into window manager geometry writes:
//   - Title-bar drag keeps the pointer offset captured at pointer-down and
//     moves the window live, clamped to the work area
//   - Corner resize sizes the window to the pointer, refusing sizes below
//     the minimum
//   - Double-click or the control button toggles maximize and focuses
//
// Exactly one gesture is in flight per desktop. Pointer-up ends it and the
// last applied geometry stays. Maximized windows neither drag nor resize.
//
// Mounting a window whose descriptor is external calls the ExternalOpener
// once, then closes the window after a short delay.
//
// Host is the contract handed to a hosted leaf app.
package frame
