package tracing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
)

// Propagation headers
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

const spanBuffer = 1000

// TraceID represents a unique trace identifier
type TraceID string

// SpanID represents a unique span identifier
type SpanID string

// Surface is where an operation entered the service
type Surface string

const (
	SurfaceHTTP Surface = "http"
	SurfaceWS   Surface = "ws"
)

// Outcome classifies a finished span. Desktop operations on unknown ids
// succeed without changing anything; those are recorded as noop.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeNoop  Outcome = "noop"
	OutcomeError Outcome = "error"
)

// Span is one traced desktop operation: a REST request or a stream message
type Span struct {
	TraceID   TraceID
	SpanID    SpanID
	ParentID  SpanID
	Name      string
	Surface   Surface
	SessionID string
	WindowID  string
	Start     time.Time
	Duration  time.Duration
	Status    int // HTTP status, zero for stream messages
	Outcome   Outcome
	Err       error
	attrs     map[string]string
}

// SpanOption sets span fields at start
type SpanOption func(*Span)

// On records the surface the operation arrived on
func On(surface Surface) SpanOption {
	return func(s *Span) { s.Surface = surface }
}

// Session ties the span to a desktop session
func Session(sessionID string) SpanOption {
	return func(s *Span) { s.SessionID = sessionID }
}

// Window ties the span to the window it addresses
func Window(windowID string) SpanOption {
	return func(s *Span) { s.WindowID = windowID }
}

// SetAttr adds a free-form attribute
func (s *Span) SetAttr(key, value string) {
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = value
}

// Attr returns an attribute set with SetAttr
func (s *Span) Attr(key string) string {
	return s.attrs[key]
}

// SetWindow records the window once it is known, e.g. after an open
func (s *Span) SetWindow(windowID string) {
	s.WindowID = windowID
}

// Fail marks the span as failed
func (s *Span) Fail(err error) {
	s.Err = err
	s.Outcome = OutcomeError
}

// Noop marks an operation that succeeded without effect
func (s *Span) Noop() {
	if s.Outcome != OutcomeError {
		s.Outcome = OutcomeNoop
	}
}

// SetStatus records the HTTP status; 5xx responses fail the span
func (s *Span) SetStatus(code int) {
	s.Status = code
	if code >= http.StatusInternalServerError && s.Outcome != OutcomeError {
		s.Outcome = OutcomeError
	}
}

// Tracer collects finished spans and writes them to the structured log
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span
	done    chan struct{}

	mu        sync.RWMutex
	closed    bool // Protected by mu
	closeOnce sync.Once
}

// New creates a tracer and starts its collector
func New(service string, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger,
		spans:   make(chan *Span, spanBuffer),
		done:    make(chan struct{}),
	}
	go t.collect()
	return t
}

// StartSpan opens a span under the trace and parent span found in ctx,
// starting a new trace when there is none
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = TraceID(id.NewRequestID())
	}

	span := &Span{
		TraceID:  traceID,
		SpanID:   SpanID(id.NewRequestID()),
		ParentID: GetSpanID(ctx),
		Name:     name,
		Start:    time.Now(),
		Outcome:  OutcomeOK,
	}
	for _, opt := range opts {
		opt(span)
	}

	return span, ContextWith(ctx, span.TraceID, span.SpanID)
}

// End stamps the duration and hands the span to the collector. Spans ended
// after Close, or while the buffer is full, are dropped.
func (t *Tracer) End(span *Span) {
	span.Duration = time.Since(span.Start)

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", string(span.TraceID)),
			zap.String("operation", span.Name),
		)
	}
}

// Close stops accepting spans and waits until buffered spans are logged
func (t *Tracer) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.spans)
		t.mu.Unlock()
		<-t.done
	})
}

func (t *Tracer) collect() {
	defer close(t.done)
	for span := range t.spans {
		t.export(span)
	}
}

// export writes one span. Failed spans log at error level.
func (t *Tracer) export(span *Span) {
	fields := []zap.Field{
		zap.String("service", t.service),
		zap.String("trace_id", string(span.TraceID)),
		zap.String("span_id", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.String("surface", string(span.Surface)),
		zap.String("outcome", string(span.Outcome)),
		zap.Duration("duration", span.Duration),
	}
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(span.ParentID)))
	}
	if span.SessionID != "" {
		fields = append(fields, zap.String("session_id", span.SessionID))
	}
	if span.WindowID != "" {
		fields = append(fields, zap.String("window_id", span.WindowID))
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	for k, v := range span.attrs {
		fields = append(fields, zap.String(k, v))
	}

	if span.Outcome == OutcomeError {
		if span.Err != nil {
			fields = append(fields, zap.Error(span.Err))
		}
		t.logger.Error("span failed", fields...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// ContextWith returns ctx carrying the given trace and span ids. Empty ids
// are left out.
func ContextWith(ctx context.Context, traceID TraceID, spanID SpanID) context.Context {
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if spanID != "" {
		ctx = context.WithValue(ctx, spanIDKey, spanID)
	}
	return ctx
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) TraceID {
	traceID, _ := ctx.Value(traceIDKey).(TraceID)
	return traceID
}

// GetSpanID retrieves the span ID from context
func GetSpanID(ctx context.Context) SpanID {
	spanID, _ := ctx.Value(spanIDKey).(SpanID)
	return spanID
}

// Extract reads the propagation headers sent by the browser
func Extract(h http.Header) (TraceID, SpanID) {
	return TraceID(h.Get(HeaderTraceID)), SpanID(h.Get(HeaderSpanID))
}

// Inject writes the ids carried by ctx into h
func Inject(ctx context.Context, h http.Header) {
	if traceID := GetTraceID(ctx); traceID != "" {
		h.Set(HeaderTraceID, string(traceID))
	}
	if spanID := GetSpanID(ctx); spanID != "" {
		h.Set(HeaderSpanID, string(spanID))
	}
}
