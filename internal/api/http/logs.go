package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// MaxLogBatch caps the entries accepted in one ingest request
const MaxLogBatch = 200

// UILogEntry is a log line produced in the browser (boot sequence, leaf
// apps, failed gestures)
type UILogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// UILogStreamRequest is a batch of browser log entries
type UILogStreamRequest struct {
	SessionID string       `json:"session_id,omitempty"`
	Entries   []UILogEntry `json:"entries"`
}

// StreamLogs ingests browser log entries into the service log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log request format"})
		return
	}

	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no log entries provided"})
		return
	}
	if len(req.Entries) > MaxLogBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many log entries"})
		return
	}
	if err := utils.ValidateID(req.SessionID, "session_id", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := h.logger.Named("ui")
	if req.SessionID != "" {
		logger = logger.With(zap.String("session_id", req.SessionID))
	}

	for _, entry := range req.Entries {
		logUIEntry(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

// logUIEntry writes one browser entry at its level
func logUIEntry(logger *zap.Logger, entry UILogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+2)
	fields = append(fields,
		zap.String("source", "ui"),
		zap.String("ui_timestamp", entry.Timestamp),
	)

	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
