package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
)

// StatusFor maps a domain error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, window.ErrUnknownApp):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotBooted):
		return http.StatusConflict
	case errors.Is(err, window.ErrInvalidSpec):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error as JSON
func respondError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"error": err.Error()})
}
