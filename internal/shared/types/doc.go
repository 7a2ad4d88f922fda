// Package types provides shared data structures for the desktop service.
//
// Core Types:
//   - AppDescriptor: Immutable registry entry for a hostable app
//   - InstanceSpec: Window built from a component rather than the registry
//   - Window: One open window instance (geometry, minimized, maximized)
//   - Snapshot: Read-only copy of a desktop's window collection
//   - SessionState: Booting/Desktop gate state
//
// Geometry:
//   - Position, Size, Viewport: Pixel geometry in viewport coordinates
//
// Request Types:
//   - OpenRequest, GestureRequest, ViewportRequest: REST payloads
//   - WSMessage: WebSocket communication
//
// Z-order is never stored as a number. The order of Snapshot.Windows is the
// stacking order and the last element is topmost.
package types
