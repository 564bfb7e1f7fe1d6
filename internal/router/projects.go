package router

import (
	"net/http"

	"github.com/deppfellow/projects-api/internal/handler"
	"github.com/deppfellow/projects-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerProjectRoutes registers the /projects CRUD endpoints.
//
// Routes carrying :id get the project id gate as route-level middleware,
// so it runs after the global chain and before the handler.
func registerProjectRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	p := h.Project

	r.GET("/projects", handler.Handle(p.Handler, p.ListProjects, http.StatusOK, p.NewListRequest))
	r.POST("/projects", handler.Handle(p.Handler, p.CreateProject, http.StatusOK, p.NewCreateRequest))

	r.PUT("/projects/:id",
		handler.Handle(p.Handler, p.UpdateProject, http.StatusOK, p.NewUpdateRequest),
		m.Project.ValidateProjectID,
	)
	r.DELETE("/projects/:id",
		handler.HandleNoContent(p.Handler, p.DeleteProject, http.StatusNoContent, p.NewDeleteRequest),
		m.Project.ValidateProjectID,
	)
}
