package handler

import (
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/deppfellow/projects-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// receives one value instead of many.
type Handlers struct {
	Project *ProjectHandler // Project serves the /projects CRUD endpoints.
	Health  *HealthHandler  // Health serves the service health endpoint.
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Project: NewProjectHandler(s, services.Project),
		Health:  NewHealthHandler(s, services.Project),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
