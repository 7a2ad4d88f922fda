package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// Taskbar returns the taskbar items for the session's windows
func (h *Handlers) Taskbar(c *gin.Context) {
	d, ok := h.desktop(c)
	if !ok {
		return
	}

	snap, err := d.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.shell.Taskbar(snap)})
}

// TaskbarClick applies the taskbar click semantics to one app
func (h *Handlers) TaskbarClick(c *gin.Context) {
	_, frames, ok := h.frames(c)
	if !ok {
		return
	}

	appID := c.Param("app")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.shell.ClickTaskbar(frames, appID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"action":   action,
		"app_id":   appID,
		"snapshot": frames.Windows().Snapshot(),
	})
}

// StartMenu returns the start menu content
func (h *Handlers) StartMenu(c *gin.Context) {
	if _, ok := h.desktop(c); !ok {
		return
	}
	c.JSON(http.StatusOK, h.shell.StartMenu())
}

// DesktopIcons returns the desktop shortcuts
func (h *Handlers) DesktopIcons(c *gin.Context) {
	if _, ok := h.desktop(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"icons": h.shell.DesktopIcons()})
}
