package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

// ListWindows returns the window snapshot. Clients may poll with
// If-None-Match to receive 304 while nothing changed.
func (h *Handlers) ListWindows(c *gin.Context) {
	d, ok := h.desktop(c)
	if !ok {
		return
	}

	snap, err := d.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}

	etag, err := h.hasher.ETag(snap)
	if err == nil {
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
	}

	c.JSON(http.StatusOK, snap)
}

// OpenWindow opens a registry app or a dynamic window
func (h *Handlers) OpenWindow(c *gin.Context) {
	_, frames, ok := h.frames(c)
	if !ok {
		return
	}

	var req types.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := utils.OpenTarget(req.AppID, req.Spec)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := frames.Open(target)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"window":   w,
		"snapshot": frames.Windows().Snapshot(),
	})
}

// windowOp runs a referential window operation and reports its result
// alongside the new snapshot
func (h *Handlers) windowOp(c *gin.Context, op func(frames *frame.Controller, windowID string) bool) {
	_, frames, ok := h.frames(c)
	if !ok {
		return
	}

	windowID := c.Param("wid")
	if err := utils.ValidateID(windowID, "window_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := op(frames, windowID)

	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
		"snapshot":  frames.Windows().Snapshot(),
	})
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowOp(c, func(f *frame.Controller, windowID string) bool {
		return f.Close(windowID)
	})
}

// FocusWindow raises a window and makes it active
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp(c, func(f *frame.Controller, windowID string) bool {
		return f.Windows().Focus(windowID)
	})
}

// MinimizeWindow toggles a window's minimized flag
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp(c, func(f *frame.Controller, windowID string) bool {
		return f.Windows().ToggleMinimize(windowID)
	})
}

// MaximizeWindow toggles maximize through the frame, which also focuses
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.windowOp(c, func(f *frame.Controller, windowID string) bool {
		return f.ToggleMaximize(windowID)
	})
}

// Gesture applies one pointer event to the session's frame controller
func (h *Handlers) Gesture(c *gin.Context) {
	_, frames, ok := h.frames(c)
	if !ok {
		return
	}

	var req types.GestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pointer := types.Position{X: req.X, Y: req.Y}
	resp := gin.H{"kind": req.Kind}

	switch req.Kind {
	case types.GestureDragStart, types.GestureResizeStart:
		if err := utils.ValidateID(req.WindowID, "window_id", true); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Kind == types.GestureDragStart {
			resp["success"] = frames.BeginDrag(req.WindowID, pointer)
		} else {
			resp["success"] = frames.BeginResize(req.WindowID)
		}
	case types.GestureMove:
		w, applied := frames.Move(pointer)
		resp["success"] = applied
		if applied {
			resp["window"] = w
		}
	case types.GestureEnd:
		resp["success"] = frames.End()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown gesture kind %q", req.Kind)})
		return
	}

	c.JSON(http.StatusOK, resp)
}
