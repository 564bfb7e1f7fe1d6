package router

import (
	"github.com/deppfellow/projects-api/internal/handler"
	"github.com/deppfellow/projects-api/internal/middleware"
	"github.com/deppfellow/projects-api/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the
// projects API: health, docs, static assets and metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html.
	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if m.Metrics.Enabled() {
		r.GET(m.Metrics.Path(), echo.WrapHandler(m.Metrics.Handler()))
	}
}
