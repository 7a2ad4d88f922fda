package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/DeskOS/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// Handler streams desktop events to browsers and applies their commands
type Handler struct {
	sessions *session.Manager
	shell    *shell.Shell
	tracer   *tracing.Tracer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Manager, desktopShell *shell.Shell, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		shell:    desktopShell,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Origins are enforced by the CORS middleware
			},
		},
	}
}

// WithTracer records a span per inbound message
func (h *Handler) WithTracer(tracer *tracing.Tracer) *Handler {
	h.tracer = tracer
	return h
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades /sessions/:id/stream and serves it until the
// browser disconnects
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := c.Param("id")
	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desktop, err := h.sessions.Get(sessionID)
	if err != nil {
		c.JSON(apihttp.StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	clientID := uuid.New().String()
	logger := h.logger.With(
		zap.String("session_id", sessionID),
		zap.String("client_id", clientID),
		zap.String("trace_id", string(tracing.GetTraceID(c.Request.Context()))),
	)
	cl := newClient(clientID, conn, logger)
	defer cl.close()
	go cl.writePump()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	logger.Info("WebSocket connected")
	defer logger.Info("WebSocket disconnected")

	unsubscribe := desktop.Subscribe(func(e session.Event) {
		h.outEvent(cl, e)
	})
	defer unsubscribe()

	// Deleting or reaping the session ends the stream
	go func() {
		select {
		case <-desktop.Done():
			logger.Info("Session closed, ending stream")
			cl.closeWith(websocket.CloseGoingAway, "session closed")
		case <-cl.done:
		}
	}()

	h.out(cl, "system", map[string]interface{}{
		"type":      "system",
		"message":   "Connected to DeskOS desktop service",
		"client_id": clientID,
		"session":   desktop.Info(),
	})
	if snap, err := desktop.Snapshot(); err == nil {
		h.outEvent(cl, session.Event{Type: session.EventSnapshot, Snapshot: &snap})
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendError(cl, "", "malformed message")
			continue
		}

		desktop.Touch()
		h.handle(c, cl, desktop, msg)
	}
}

// handle dispatches one message inside a trace span
func (h *Handler) handle(c *gin.Context, cl *client, desktop *session.Desktop, msg types.WSMessage) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage("in", msg.Type)
	}
	timer := monitoring.NewTimer(h.metrics, "ws", msg.Type)

	var span *tracing.Span
	if h.tracer != nil {
		span, _ = h.tracer.StartSpan(c.Request.Context(), "ws."+msg.Type,
			tracing.On(tracing.SurfaceWS),
			tracing.Session(desktop.ID()),
			tracing.Window(msg.WindowID),
		)
		span.SetAttr("client.id", cl.id)
	}

	reply, err := h.dispatch(desktop, msg)

	status := "success"
	if err != nil {
		status = "error"
		h.sendError(cl, msg.Type, err.Error())
	} else if reply != nil {
		msgType := reply["type"].(string)
		if msg.Type == MsgPointerMove {
			// One reply per pointer sample; only the newest matters
			h.outLatest(cl, "ack:"+msg.Type, msgType, reply)
		} else {
			h.out(cl, msgType, reply)
		}
	}
	timer.Stop(status)

	if span != nil {
		switch {
		case err != nil:
			span.Fail(err)
		case reply["success"] == false:
			span.Noop()
		}
		if w, ok := reply["window"].(types.Window); ok {
			span.SetWindow(w.ID)
		}
		h.tracer.End(span)
	}
}

// out queues an outbound frame
func (h *Handler) out(cl *client, msgType string, v interface{}) {
	if cl.push(v) && h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
}

// outLatest queues a frame that supersedes any pending frame with the same key
func (h *Handler) outLatest(cl *client, key, msgType string, v interface{}) {
	if cl.pushLatest(key, v) && h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
}

// outEvent queues a desktop event. Snapshots collapse into the latest one.
func (h *Handler) outEvent(cl *client, e session.Event) {
	if e.Type == session.EventSnapshot {
		h.outLatest(cl, string(e.Type), string(e.Type), e)
		return
	}
	h.out(cl, string(e.Type), e)
}

func (h *Handler) sendError(cl *client, request, message string) {
	h.out(cl, "error", map[string]interface{}{
		"type":      "error",
		"request":   request,
		"message":   message,
		"timestamp": time.Now().Unix(),
	})
}
