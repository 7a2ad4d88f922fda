package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// desktop resolves the :id session, writing the error response on failure
func (h *Handlers) desktop(c *gin.Context) (*session.Desktop, bool) {
	sessionID := c.Param("id")

	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	d, err := h.sessions.Get(sessionID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return d, true
}

// frames resolves the :id session's frame controller; the session must
// have booted
func (h *Handlers) frames(c *gin.Context) (*session.Desktop, *frame.Controller, bool) {
	d, ok := h.desktop(c)
	if !ok {
		return nil, nil, false
	}

	frames, err := d.Frames()
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return d, frames, true
}

// CreateSession starts a new desktop session in the Booting state
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Viewport != (types.Viewport{}) {
		if err := utils.ValidateViewport(req.Viewport); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	d := h.sessions.Create(req.Viewport)
	c.JSON(http.StatusCreated, d.Info())
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns session state, plus the window snapshot once booted
func (h *Handlers) GetSession(c *gin.Context) {
	d, ok := h.desktop(c)
	if !ok {
		return
	}

	resp := gin.H{"session": d.Info()}
	if snap, err := d.Snapshot(); err == nil {
		resp["snapshot"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSession drops a session and its windows
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.sessions.Delete(sessionID) {
		respondError(c, session.ErrSessionNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// CompleteBoot is the boot sequence's completion signal
func (h *Handlers) CompleteBoot(c *gin.Context) {
	d, ok := h.desktop(c)
	if !ok {
		return
	}

	transitioned := d.CompleteBoot()

	c.JSON(http.StatusOK, gin.H{
		"success": transitioned,
		"session": d.Info(),
	})
}

// SetViewport records the browser viewport
func (h *Handlers) SetViewport(c *gin.Context) {
	d, ok := h.desktop(c)
	if !ok {
		return
	}

	var req types.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vp := types.Viewport{Width: req.Width, Height: req.Height}
	if err := utils.ValidateViewport(vp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d.SetViewport(vp)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"viewport": vp,
	})
}
