package tracing

import (
	"github.com/gin-gonic/gin"
)

// HTTPMiddleware opens a span per request, named after the route template.
// Session and window path parameters become span fields.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID, parentID := Extract(c.Request.Header)
		ctx := ContextWith(c.Request.Context(), traceID, parentID)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+route,
			On(SurfaceHTTP),
			Session(c.Param("id")),
			Window(c.Param("wid")),
		)
		span.SetAttr("http.method", c.Request.Method)
		span.SetAttr("http.path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ctx)

		// Response carries the ids before handlers write the body
		Inject(ctx, c.Writer.Header())

		c.Next()

		span.SetStatus(c.Writer.Status())
		if len(c.Errors) > 0 {
			span.Fail(c.Errors.Last())
		}
		tracer.End(span)
	}
}
