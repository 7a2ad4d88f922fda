// Package server wires the desktop service together.
//
// It seeds the app registry (built-in catalog plus REGISTRY_GLOB files),
// builds the session store and shell from configuration, and mounts the
// REST API, the per-session WebSocket stream and the Prometheus endpoint
// behind the middleware stack: recovery, tracing, metrics, CORS, per-IP
// rate limiting and gzip compression. A background reaper drops idle
// sessions.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
