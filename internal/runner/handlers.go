package runner

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers exposes run endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates run HTTP handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers run routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/run", h.RunAll)
	g.POST("/run/:name", h.RunApplication)
	g.GET("/test/:name", h.TestConnection)
}

// RunApplication triggers a run for one application.
// POST /api/v1/run/:name?dryRun=true
func (h *Handlers) RunApplication(c echo.Context) error {
	name := c.Param("name")
	dryRun := isTrue(c.QueryParam("dryRun"))

	res, err := h.service.RunApplication(c.Request().Context(), name, dryRun)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"result":  res,
	})
}

// RunAll triggers a run for every configured application.
// POST /api/v1/run?dryRun=true
func (h *Handlers) RunAll(c echo.Context) error {
	dryRun := isTrue(c.QueryParam("dryRun"))
	res := h.service.RunAll(c.Request().Context(), dryRun)
	return c.JSON(http.StatusOK, res)
}

// TestConnection checks that an application is reachable.
// GET /api/v1/test/:name
func (h *Handlers) TestConnection(c echo.Context) error {
	name := c.Param("name")

	version, err := h.service.TestConnection(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"apiVersion": version,
	})
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true")
}
