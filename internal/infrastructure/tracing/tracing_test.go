package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New("test", zap.New(core)), logs
}

func TestStartSpanNewTrace(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "op")
	assert.NotEmpty(t, span.TraceID)
	assert.NotEmpty(t, span.SpanID)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, OutcomeOK, span.Outcome)
	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))

	child, _ := tracer.StartSpan(ctx, "child")
	assert.Equal(t, span.TraceID, child.TraceID)
	assert.Equal(t, span.SpanID, child.ParentID)
}

func TestSpanOptions(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "ws.open",
		On(SurfaceWS), Session("sess_1"), Window("notepad"))
	assert.Equal(t, SurfaceWS, span.Surface)
	assert.Equal(t, "sess_1", span.SessionID)
	assert.Equal(t, "notepad", span.WindowID)

	span.SetWindow("calculator")
	span.SetAttr("client.id", "c1")
	assert.Equal(t, "calculator", span.WindowID)
	assert.Equal(t, "c1", span.Attr("client.id"))
	assert.Empty(t, span.Attr("missing"))
}

func TestOutcomes(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	noop, _ := tracer.StartSpan(context.Background(), "close")
	noop.Noop()
	assert.Equal(t, OutcomeNoop, noop.Outcome)

	failed, _ := tracer.StartSpan(context.Background(), "open")
	failed.Fail(errors.New("boom"))
	failed.Noop()
	assert.Equal(t, OutcomeError, failed.Outcome)

	notFound, _ := tracer.StartSpan(context.Background(), "get")
	notFound.SetStatus(http.StatusNotFound)
	assert.Equal(t, OutcomeOK, notFound.Outcome)

	broken, _ := tracer.StartSpan(context.Background(), "get")
	broken.SetStatus(http.StatusInternalServerError)
	assert.Equal(t, OutcomeError, broken.Outcome)
}

func TestEndExportsSpan(t *testing.T) {
	tracer, logs := newObserved()

	span, _ := tracer.StartSpan(context.Background(), "ws.focus",
		On(SurfaceWS), Session("sess_1"), Window("notepad"))
	tracer.End(span)

	failed, _ := tracer.StartSpan(context.Background(), "ws.open")
	failed.Fail(errors.New("boom"))
	tracer.End(failed)

	tracer.Close()

	require.Equal(t, 2, logs.Len())
	ok := logs.All()[0]
	assert.Equal(t, "span completed", ok.Message)
	fields := ok.ContextMap()
	assert.Equal(t, "sess_1", fields["session_id"])
	assert.Equal(t, "notepad", fields["window_id"])
	assert.Equal(t, "ws", fields["surface"])
	assert.Equal(t, "ok", fields["outcome"])

	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.Equal(t, "boom", logs.All()[1].ContextMap()["error"])

	// Ending after Close is dropped silently
	assert.NotPanics(t, func() { tracer.End(span) })
	assert.Equal(t, 2, logs.Len())
}

func TestInjectExtract(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "op")
	headers := http.Header{}
	Inject(ctx, headers)

	traceID, spanID := Extract(headers)
	assert.Equal(t, span.TraceID, traceID)
	assert.Equal(t, span.SpanID, spanID)

	empty := http.Header{}
	Inject(context.Background(), empty)
	assert.Empty(t, empty)
}

func TestHTTPMiddlewarePropagatesTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObserved()

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.POST("/sessions/:id/windows/:wid/focus", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions/sess_1/windows/notepad/focus", nil)
	req.Header.Set(HeaderTraceID, "trace-abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, TraceID("trace-abc"), seen)
	assert.Equal(t, "trace-abc", w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderSpanID))

	tracer.Close()
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST /sessions/:id/windows/:wid/focus", fields["operation"])
	assert.Equal(t, "sess_1", fields["session_id"])
	assert.Equal(t, "notepad", fields["window_id"])
	assert.Equal(t, "http", fields["surface"])
	assert.Equal(t, int64(204), fields["status"])
}
