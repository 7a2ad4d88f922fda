package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *registry.Manager
	sessions *session.Manager
	shell    *shell.Shell
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	hasher   *utils.Hasher
}

// NewHandlers creates a new handler set
func NewHandlers(
	appRegistry *registry.Manager,
	sessions *session.Manager,
	desktopShell *shell.Shell,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: appRegistry,
		sessions: sessions,
		shell:    desktopShell,
		metrics:  metrics,
		logger:   logger,
		hasher:   utils.NewHasher(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "DeskOS Desktop Service (Go)",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Stats(),
		"registry": h.registry.Stats(),
	})
}

// MetricsSummary returns current metric values as JSON
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListApps lists registry descriptors, optionally by category
func (h *Handlers) ListApps(c *gin.Context) {
	categoryStr := c.Query("category")

	if err := utils.ValidateCategory(categoryStr, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  h.registry.List(category),
		"stats": h.registry.Stats(),
	})
}

// GetApp returns one registry descriptor
func (h *Handlers) GetApp(c *gin.Context) {
	appID := c.Param("app")

	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desc, ok := h.registry.Get(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "app not found"})
		return
	}

	c.JSON(http.StatusOK, desc)
}
