package handler

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/projects-api/internal/server"
	"github.com/deppfellow/projects-api/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API documentation UI.
//
// The page loads its viewer from a CDN and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves openapi.html with caching disabled so doc updates
// show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := static.FS.ReadFile("openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
