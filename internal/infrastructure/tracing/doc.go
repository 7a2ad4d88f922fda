/*
Package tracing provides lightweight request tracing.

# Overview

Every HTTP request and every WebSocket message handled by the desktop
service gets a span. A span records the session and window it touched,
the surface it arrived on, and its outcome: ok, noop for operations on
unknown windows, or error. Spans carry a trace id that the browser may
supply, so a pointer gesture can be followed across the REST and
WebSocket surfaces. Completed spans are written to the structured log.

# Usage

	tracer := tracing.New("deskos", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "ws.focus",
		tracing.On(tracing.SurfaceWS),
		tracing.Session(sessionID),
		tracing.Window(windowID),
	)
	defer tracer.End(span)

# Trace Format

Traces use HTTP headers for propagation:
  - X-Trace-ID: identifier for the whole request flow
  - X-Span-ID: identifier for the current operation

Spans are buffered (1000) and logged asynchronously; a full buffer drops
spans rather than blocking the request.
*/
package tracing
