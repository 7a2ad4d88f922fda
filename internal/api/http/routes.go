package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the REST API on r. logLimits run in front of the
// browser log ingest only.
func RegisterRoutes(r gin.IRouter, h *Handlers, logLimits ...gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/summary", h.MetricsSummary)
	r.POST("/logs", append(logLimits, h.StreamLogs)...)

	reg := r.Group("/registry")
	{
		reg.GET("/apps", h.ListApps)
		reg.GET("/apps/:app", h.GetApp)
	}

	sessions := r.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/boot/complete", h.CompleteBoot)
		sessions.PUT("/:id/viewport", h.SetViewport)

		sessions.GET("/:id/windows", h.ListWindows)
		sessions.POST("/:id/windows", h.OpenWindow)
		sessions.DELETE("/:id/windows/:wid", h.CloseWindow)
		sessions.POST("/:id/windows/:wid/focus", h.FocusWindow)
		sessions.POST("/:id/windows/:wid/minimize", h.MinimizeWindow)
		sessions.POST("/:id/windows/:wid/maximize", h.MaximizeWindow)
		sessions.POST("/:id/gesture", h.Gesture)

		sessions.GET("/:id/shell/taskbar", h.Taskbar)
		sessions.POST("/:id/shell/taskbar/:app/click", h.TaskbarClick)
		sessions.GET("/:id/shell/start-menu", h.StartMenu)
		sessions.GET("/:id/shell/desktop-icons", h.DesktopIcons)
	}
}
