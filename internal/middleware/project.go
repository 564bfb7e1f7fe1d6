package middleware

import (
	"github.com/deppfellow/projects-api/internal/errs"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/deppfellow/projects-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// ProjectIDParam is the path parameter carrying a project id.
const ProjectIDParam = "id"

// ProjectMiddleware holds route-scoped middleware for /projects/:id.
type ProjectMiddleware struct {
	server *server.Server
}

func NewProjectMiddleware(s *server.Server) *ProjectMiddleware {
	return &ProjectMiddleware{server: s}
}

// ValidateProjectID rejects the request with 400 "Invalid project ID."
// when the :id path parameter is not a UUID. The handler is not called in
// that case; otherwise the request passes through untouched.
func (pm *ProjectMiddleware) ValidateProjectID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !validation.IsValidUUID(c.Param(ProjectIDParam)) {
			return errs.NewInvalidProjectIDError()
		}
		return next(c)
	}
}
