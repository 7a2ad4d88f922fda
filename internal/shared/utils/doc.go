// Package utils holds input validation and content hashing shared by the
// HTTP and WebSocket surfaces.
package utils
