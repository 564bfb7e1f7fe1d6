// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/projects-api/internal/handler"
	"github.com/deppfellow/projects-api/internal/middleware"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware pipeline and
// every route registered.
//
// Global middleware order matters:
//  1. request id, the New Relic transaction and the context logger come
//     first so everything after them can log with correlation fields
//  2. the request logger wraps the rest of the chain and writes error
//     responses itself, so its end line covers them; middleware that needs
//     to see returned errors (tracing, metrics) sits inside it
//  3. Recover sits inside the logger so panics become JSON 500s
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Metrics.Collect(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h, middlewares)
	registerProjectRoutes(router, h, middlewares)

	return router
}
