/*
Package monitoring provides metrics collection for the desktop service.

# Overview

Metrics are Prometheus collectors registered on a per-instance registry.
They track HTTP traffic, window manager operations, pointer gestures,
desktop sessions and WebSocket connections.

# Usage

	metrics := monitoring.NewMetrics()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	windows := window.NewManager(reg, cfg, vp).WithMetrics(metrics)

	timer := monitoring.NewTimer(metrics, "ws", "open")
	// ... perform operation ...
	timer.Stop("success")

Snapshot returns a small set of current values for the JSON status
endpoints.
*/
package monitoring
