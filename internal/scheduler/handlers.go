package scheduler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers exposes scheduler state over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates scheduler HTTP handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers scheduler routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
}

// Status returns the scheduler state.
// GET /api/v1/scheduler/status
func (h *Handlers) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Status())
}
