// Package middleware provides HTTP middleware for the desktop service.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle client cleanup
//   - GlobalRateLimit: One bucket shared by every client
//   - Compress: gzip response compression for JSON payloads
//
// The WebSocket stream route is usually listed in SkipPaths, since one
// upgrade carries a whole session of pointer events.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	handler, err := middleware.Compress(router, 1024)
package middleware
